package terminal

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// HuhConfirmer asks yes/no questions with charmbracelet/huh.
type HuhConfirmer struct {
	isTerminal func() bool
}

// NewHuhConfirmer returns a confirmer gated on IsInteractive.
func NewHuhConfirmer() HuhConfirmer {
	return HuhConfirmer{isTerminal: IsInteractive}
}

// Confirm asks title and returns the answer. Aborting the form (Esc, Ctrl+C) answers no.
func (c HuhConfirmer) Confirm(title string) (bool, error) {
	checker := c.isTerminal
	if checker == nil {
		checker = IsInteractive
	}
	if !checker() {
		return false, fmt.Errorf(messages.TerminalConfirmRequiresTerminal)
	}

	answer := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative(messages.TerminalConfirmYes).
			Negative(messages.TerminalConfirmNo).
			Value(&answer),
	))
	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

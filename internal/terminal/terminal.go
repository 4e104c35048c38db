// Package terminal provides console interaction helpers.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	isTerminalFd = term.IsTerminal
	makeRaw      = term.MakeRaw
	restoreTerm  = term.Restore
)

// WaitForKey prints prompt and blocks until a key is pressed.
// A terminal stdin is put in raw mode so any single key counts; other readers
// are consumed up to the next newline. End of input returns nil.
func WaitForKey(in io.Reader, out io.Writer, prompt string) error {
	_, _ = fmt.Fprint(out, prompt)
	if file, ok := in.(*os.File); ok && isTerminalFd(int(file.Fd())) {
		fd := int(file.Fd())
		state, err := makeRaw(fd)
		if err == nil {
			defer func() {
				_ = restoreTerm(fd, state)
			}()
			buf := make([]byte, 1)
			_, err = file.Read(buf)
			_, _ = fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	_, err := bufio.NewReader(in).ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

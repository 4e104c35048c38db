package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/status"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			env, err := newEnvironment(cmd, flags)
			if err != nil {
				return err
			}
			in := status.Inputs{
				Probes:       env.probes,
				Registrar:    env.registrar,
				IsElevated:   isElevated,
				Feature:      env.cfg.Features.Probe,
				Distribution: env.cfg.Distribution.Name,
				Entry:        env.self.Name,
			}

			_, _ = fmt.Fprintf(out, messages.StatusHeaderFmt, env.cfg.Distribution.Name)
			for _, r := range status.Collect(cmd.Context(), in) {
				printResult(out, r)
			}
			stage, err := status.Stage(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.StatusStageFmt, color.New(color.Bold).Sprint(stage))
			return nil
		},
	}
}

func printResult(out io.Writer, r status.Result) {
	var label string
	switch r.Status {
	case status.StatusOK:
		label = color.GreenString(messages.StatusOKLabel)
	case status.StatusWarn:
		label = color.YellowString(messages.StatusWarnLabel)
	default:
		label = color.CyanString(messages.StatusInfoLabel)
	}
	_, _ = fmt.Fprintf(out, messages.StatusResultLineFmt, label, r.CheckName, r.Message)
	if r.Recommendation != "" {
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.StatusRecommendPre, r.Recommendation)
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/provision"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, flags)
		},
	}
	cmd.Flags().BoolP("version", "v", false, messages.RootVersionFlag)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", messages.RootFlagConfig)
	pf.BoolVar(&flags.verbose, "verbose", false, messages.RootFlagVerbose)
	cmd.Flags().BoolVar(&flags.noWait, "no-wait", false, messages.RootFlagNoWait)
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, messages.RootFlagYes)

	cmd.AddCommand(
		newStatusCmd(flags),
		newUnregisterCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

func runProvision(cmd *cobra.Command, flags *globalFlags) error {
	out := cmd.OutOrStdout()
	env, err := newEnvironment(cmd, flags)
	if err != nil {
		return err
	}
	downloader, err := newDownloader(env.cfg, env.logger)
	if err != nil {
		return err
	}

	deps := provision.Deps{
		Runner:     env.runner,
		Probes:     env.probes,
		Registrar:  env.registrar,
		Downloader: downloader,
		Self:       env.self,
		IsElevated: isElevated,
		Step:       stepPrinter(out),
		Logger:     env.logger,
	}
	if !flags.yes && isInteractive() {
		deps.Confirmer = newConfirmer()
	}
	orchestrator, err := provision.New(provision.PlanFromConfig(env.cfg), deps)
	if err != nil {
		return err
	}

	outcome, err := orchestrator.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, provision.ErrNotElevated) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString(messages.RunNotElevatedHint))
		}
		return err
	}

	switch outcome {
	case provision.OutcomeRebootScheduled:
		seconds := int(env.cfg.RebootDelay() / time.Second)
		_, _ = fmt.Fprint(out, color.YellowString(messages.RunRebootScheduledFmt, seconds, messages.RootUse))
		return nil
	case provision.OutcomeRebootDeclined:
		_, _ = fmt.Fprint(out, color.YellowString(messages.RunRebootDeclinedFmt, messages.RootUse))
		return nil
	}

	_, _ = fmt.Fprint(out, color.GreenString(messages.RunUpgradedFmt, env.cfg.Distribution.Name))
	if flags.noWait || !isInteractive() {
		return nil
	}
	return waitForKey(cmd.InOrStdin(), out, messages.RunPressAnyKey)
}

func stepPrinter(out io.Writer) func(string) {
	step := color.New(color.FgCyan, color.Bold)
	return func(msg string) {
		_, _ = step.Fprintf(out, messages.StepFmt, msg)
	}
}

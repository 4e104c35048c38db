package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

func newUnregisterCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UnregisterUse,
		Short: messages.UnregisterShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			registered, err := env.registrar.Registered(ctx, env.self.Name)
			if err != nil {
				return err
			}
			if !registered {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UnregisterNoneFmt, env.self.Name)
				return nil
			}
			if err := env.registrar.Deregister(ctx, env.self.Name); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UnregisterDoneFmt, env.self.Name)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"focuspomo/internal/platform"
)

func newAutostartCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching the agent at login",
	}
	command.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Launch the agent at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				execPath, err := os.Executable()
				if err != nil {
					return errors.Wrap(err, "resolve executable")
				}
				if err := platform.NewAutostart().Enable(appName, execPath); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Autostart enabled.")
				return err
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop launching the agent at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := platform.NewAutostart().Disable(appName); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Autostart disabled.")
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the agent launches at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				state := "disabled"
				if platform.NewAutostart().Enabled(appName) {
					state = "enabled"
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s.\n", state)
				return err
			},
		},
	)
	return command
}

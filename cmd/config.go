package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"focuspomo/internal/storage"
)

func newConfigCommand(options *globalOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the settings file",
	}
	command.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				paths, err := options.paths()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), paths.Settings)
				return err
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings after defaults and environment overrides",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				paths, err := options.paths()
				if err != nil {
					return err
				}
				settings, err := storage.NewSettingsFile(paths.Settings).Load()
				if err != nil {
					return err
				}
				serialized, err := yaml.Marshal(settings)
				if err != nil {
					return errors.Wrap(err, "marshal settings")
				}
				_, err = cmd.OutOrStdout().Write(serialized)
				return err
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Overwrite the settings file with the defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				paths, err := options.paths()
				if err != nil {
					return err
				}
				if _, err := storage.NewSettingsFile(paths.Settings).Reset(); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Settings reset: %s\n", paths.Settings)
				return err
			},
		},
	)
	return command
}

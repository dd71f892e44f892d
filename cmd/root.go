package main

import (
	"github.com/spf13/cobra"

	"focuspomo/internal/storage"
)

type globalOptions struct {
	configDir string
	logLevel  string
}

func newRootCommand() *cobra.Command {
	options := &globalOptions{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Focus-driven pomodoro timer",
		Long:          "focuspomo watches which application has focus and runs work and break intervals accordingly.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&options.configDir, "config-dir", "", "directory holding settings.yaml, stats.db and agent.log (default: <user config dir>/focuspomo)")
	root.PersistentFlags().StringVar(&options.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	run := newRunCommand(options)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())
	root.AddCommand(
		run,
		newStatsCommand(options),
		newConfigCommand(options),
		newAutostartCommand(),
	)
	return root
}

func (options *globalOptions) paths() (storage.Paths, error) {
	if options.configDir != "" {
		return storage.PathsIn(options.configDir), nil
	}
	return storage.DefaultPaths(appName)
}

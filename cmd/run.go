package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"focuspomo/internal/logging"
	"focuspomo/internal/platform"
)

type runOptions struct {
	*globalOptions
	headless bool
}

func newRunCommand(global *globalOptions) *cobra.Command {
	options := &runOptions{globalOptions: global}
	command := &cobra.Command{
		Use:   "run",
		Short: "Start the agent (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd.Context(), options)
		},
	}
	command.Flags().BoolVar(&options.headless, "headless", false, "run without the tray, logging session events only")
	return command
}

func runAgent(ctx context.Context, options *runOptions) error {
	paths, err := options.paths()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(options.logLevel)
	if err != nil {
		return err
	}
	logger, logFile, err := logging.New(logging.Options{Level: level, Console: os.Stderr, FilePath: paths.Log})
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	lock, err := platform.AcquireInstanceLock(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Warn("another focuspomo agent is already running")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	agent, err := newAgent(paths, platform.NewFocusProvider(), clockwork.NewRealClock(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := agent.Close(); err != nil {
			logger.Warn("close stats store", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("agent started", "config_dir", paths.Dir, "headless", options.headless)
	if options.headless {
		return agent.runHeadless(ctx)
	}
	return agent.runTray(ctx)
}

func (agent *agent) runHeadless(ctx context.Context) error {
	go agent.logEvents(agent.controller.Subscribe(64))
	return agent.serve(ctx, nil)
}

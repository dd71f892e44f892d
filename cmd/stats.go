package main

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focuspomo/internal/core/stats"
	"focuspomo/internal/report"
	"focuspomo/internal/storage"
)

var errClearNotConfirmed = errors.New("refusing to clear statistics without --yes")

func newStatsCommand(options *globalOptions) *cobra.Command {
	var days int
	command := &cobra.Command{
		Use:   "stats",
		Short: "Print recorded work time per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accumulator, store, err := openAccumulator(options)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := report.Load(cmd.Context(), accumulator)
			if err != nil {
				return err
			}
			if err := summary.WriteTable(cmd.OutOrStdout(), days); err != nil {
				return err
			}
			updated, found, err := store.UpdatedAt(cmd.Context(), stats.DefaultKey)
			if err != nil || !found {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Last recorded: %s\n", humanize.RelTime(updated, time.Now(), "ago", "from now"))
			return err
		},
	}
	command.Flags().IntVar(&days, "days", 14, "number of most recent days to list, 0 for all")
	command.AddCommand(newStatsClearCommand(options))
	return command
}

func newStatsClearCommand(options *globalOptions) *cobra.Command {
	var confirmed bool
	command := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errClearNotConfirmed
			}
			accumulator, store, err := openAccumulator(options)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := accumulator.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Statistics cleared.")
			return err
		},
	}
	command.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return command
}

func openAccumulator(options *globalOptions) (*stats.Accumulator, *storage.SQLiteKV, error) {
	paths, err := options.paths()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.OpenSQLiteKV(storage.KVConfig{Path: paths.Database, PoolSize: 1})
	if err != nil {
		return nil, nil, err
	}
	return stats.New(store, stats.Config{}), store, nil
}

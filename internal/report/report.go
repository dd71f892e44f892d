// Package report formats timers and statistics for people.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/olekukonko/tablewriter"

	"focuspomo/internal/core/history"
	"focuspomo/internal/core/stats"
)

const durationDisplayUnits = 2

// FormatClock renders seconds as MM:SS. Negative input renders as 00:00.
func FormatClock(seconds int) string {
	seconds = max(0, seconds)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatWork renders accumulated work time with its two largest units.
func FormatWork(seconds int) string {
	if seconds <= 0 {
		return "none"
	}
	return durafmt.Parse(time.Duration(seconds) * time.Second).LimitFirstN(durationDisplayUnits).String()
}

// Summary is everything the statistics views show.
type Summary struct {
	Today   stats.DayStats
	Total   stats.DayStats
	Average stats.Averages
	Days    []stats.Day
}

// Load reads a Summary from the accumulator.
func Load(ctx context.Context, accumulator *stats.Accumulator) (Summary, error) {
	var (
		summary Summary
		err     error
	)
	if summary.Today, err = accumulator.Today(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "read today")
	}
	if summary.Total, err = accumulator.Total(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "read totals")
	}
	if summary.Average, err = accumulator.Average(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "read averages")
	}
	if summary.Days, err = accumulator.Days(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "read days")
	}
	return summary, nil
}

// Overview is the short text used in dialogs.
func (summary Summary) Overview() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Today: %s, %s\n", FormatWork(summary.Today.WorkSeconds), pomodoros(summary.Today.PomodoroCount))
	fmt.Fprintf(&builder, "Total: %s, %s\n", FormatWork(summary.Total.WorkSeconds), pomodoros(summary.Total.PomodoroCount))
	if summary.Average.Days > 0 {
		fmt.Fprintf(&builder, "Daily average over %s: %s, %.1f pomodoros\n",
			days(summary.Average.Days),
			FormatWork(int(summary.Average.WorkSeconds)),
			summary.Average.PomodoroCount,
		)
	}
	return builder.String()
}

// WriteTable renders one row per recorded day, most recent last, followed
// by the overview.
func (summary Summary) WriteTable(w io.Writer, limit int) error {
	rows := summary.Days
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf)
	table.Header([]string{"Date", "Work", "Pomodoros"})
	for _, day := range rows {
		if err := table.Append([]string{day.Date, FormatWork(day.WorkSeconds), humanize.Comma(int64(day.PomodoroCount))}); err != nil {
			return errors.Wrap(err, "append stats row")
		}
	}
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "render stats table")
	}

	buf.WriteString(summary.Overview())
	_, err := w.Write(buf.Bytes())
	return err
}

// FocusLines describes recent focus usage, one process per line.
func FocusLines(usage []history.ProcessUsage, now time.Time) []string {
	lines := make([]string, 0, len(usage))
	for _, entry := range usage {
		name := entry.DisplayName
		if name == "" {
			name = entry.ProcessID
		}
		lines = append(lines, fmt.Sprintf("%s: %.0f%% of samples, last seen %s",
			name,
			entry.Share*100,
			humanize.RelTime(entry.LastSeen, now, "ago", "from now"),
		))
	}
	return lines
}

func pomodoros(count int) string {
	if count == 1 {
		return "1 pomodoro"
	}
	return humanize.Comma(int64(count)) + " pomodoros"
}

func days(count int) string {
	if count == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(count)) + " days"
}

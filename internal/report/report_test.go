package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuspomo/internal/core/history"
	"focuspomo/internal/core/stats"
	"focuspomo/internal/storage"
)

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "00:09", FormatClock(9))
	assert.Equal(t, "00:00", FormatClock(-3))
	assert.Equal(t, "120:05", FormatClock(7205))
}

func TestFormatWork(t *testing.T) {
	assert.Equal(t, "none", FormatWork(0))
	assert.Equal(t, "1 hour 30 minutes", FormatWork(5400))
	assert.Equal(t, "25 minutes", FormatWork(1500))
}

func TestSummaryTable(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 13, 10, 0, 0, 0, time.UTC))
	accumulator := stats.New(storage.NewMemoryKV(), stats.Config{Clock: clock, Location: time.UTC})
	ctx := context.Background()

	require.NoError(t, accumulator.AddWorkSeconds(ctx, 3000))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))
	clock.Advance(24 * time.Hour)
	require.NoError(t, accumulator.AddWorkSeconds(ctx, 1500))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))

	summary, err := Load(ctx, accumulator)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Today.PomodoroCount)
	assert.Equal(t, 4500, summary.Total.WorkSeconds)
	assert.Equal(t, 2, summary.Average.Days)

	var out bytes.Buffer
	require.NoError(t, summary.WriteTable(&out, 0))
	text := out.String()
	assert.Contains(t, text, "2026-10-13")
	assert.Contains(t, text, "2026-10-14")
	assert.Contains(t, text, "50 minutes")
	assert.Contains(t, text, "Today: 25 minutes, 2 pomodoros")
	assert.Contains(t, text, "Total: 1 hour 15 minutes, 3 pomodoros")
	assert.Contains(t, text, "Daily average over 2 days")

	out.Reset()
	require.NoError(t, summary.WriteTable(&out, 1))
	assert.NotContains(t, out.String(), "2026-10-13")
}

func TestOverviewWithoutDays(t *testing.T) {
	overview := Summary{}.Overview()
	assert.Equal(t, "Today: none, 0 pomodoros\nTotal: none, 0 pomodoros\n", overview)
}

func TestFocusLines(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	lines := FocusLines([]history.ProcessUsage{
		{ProcessID: "code", DisplayName: "Code", Share: 0.75, LastSeen: now.Add(-3 * time.Minute)},
		{ProcessID: "slack", Share: 0.25, LastSeen: now.Add(-2 * time.Hour)},
	}, now)

	assert.Equal(t, []string{
		"Code: 75% of samples, last seen 3 minutes ago",
		"slack: 25% of samples, last seen 2 hours ago",
	}, lines)
}

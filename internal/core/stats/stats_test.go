package stats

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuspomo/internal/storage"
)

var day1 = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func newAccumulator(t *testing.T) (*Accumulator, *storage.MemoryKV, *clockwork.FakeClock) {
	t.Helper()
	store := storage.NewMemoryKV()
	clock := clockwork.NewFakeClockAt(day1)
	return New(store, Config{Clock: clock, Location: time.UTC}), store, clock
}

func TestAddWorkSecondsIgnoresNonPositive(t *testing.T) {
	accumulator, store, _ := newAccumulator(t)
	ctx := context.Background()

	require.NoError(t, accumulator.AddWorkSeconds(ctx, 0))
	require.NoError(t, accumulator.AddWorkSeconds(ctx, -30))

	_, found, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found, "no record is created for ignored input")

	today, err := accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{}, today)
}

func TestTodayAccumulates(t *testing.T) {
	accumulator, _, _ := newAccumulator(t)
	ctx := context.Background()

	require.NoError(t, accumulator.AddWorkSeconds(ctx, 120))
	require.NoError(t, accumulator.AddWorkSeconds(ctx, 30))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))

	today, err := accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{WorkSeconds: 150, PomodoroCount: 1}, today)
}

func TestTotalsAndAveragesAcrossDays(t *testing.T) {
	accumulator, _, clock := newAccumulator(t)
	ctx := context.Background()

	require.NoError(t, accumulator.AddWorkSeconds(ctx, 1500))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))
	clock.Advance(24 * time.Hour)
	require.NoError(t, accumulator.AddWorkSeconds(ctx, 500))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))

	total, err := accumulator.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{WorkSeconds: 2000, PomodoroCount: 3}, total)

	days, err := accumulator.Days(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-14", days[0].Date)
	assert.Equal(t, "2026-10-15", days[1].Date)
	assert.Equal(t, total.WorkSeconds, days[0].WorkSeconds+days[1].WorkSeconds)

	average, err := accumulator.Average(ctx)
	require.NoError(t, err)
	assert.Equal(t, Averages{WorkSeconds: 1000, PomodoroCount: 1.5, Days: 2}, average)
}

func TestAverageWithoutDays(t *testing.T) {
	accumulator, _, _ := newAccumulator(t)

	average, err := accumulator.Average(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Averages{}, average)
}

func TestClearAll(t *testing.T) {
	accumulator, _, _ := newAccumulator(t)
	ctx := context.Background()
	require.NoError(t, accumulator.AddWorkSeconds(ctx, 60))
	require.NoError(t, accumulator.IncrementPomodoro(ctx))

	require.NoError(t, accumulator.ClearAll(ctx))

	today, err := accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{}, today)
	total, err := accumulator.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{}, total)
	all, err := accumulator.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCorruptDataDecodesAsEmpty(t *testing.T) {
	accumulator, store, _ := newAccumulator(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, DefaultKey, []byte("{not json")))

	all, err := accumulator.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, accumulator.AddWorkSeconds(ctx, 10))
	today, err := accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{WorkSeconds: 10}, today)
}

func TestNullDataDecodesAsEmpty(t *testing.T) {
	accumulator, store, _ := newAccumulator(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, DefaultKey, []byte("null")))

	all, err := accumulator.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.NotPanics(t, func() {
		require.NoError(t, accumulator.AddWorkSeconds(ctx, 10))
		require.NoError(t, accumulator.IncrementPomodoro(ctx))
	})
	today, err := accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, DayStats{WorkSeconds: 10, PomodoroCount: 1}, today)
}

func TestPersistedLayout(t *testing.T) {
	accumulator, store, _ := newAccumulator(t)
	ctx := context.Background()
	require.NoError(t, accumulator.AddWorkSeconds(ctx, 42))

	raw, found, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"2026-10-14":{"workSeconds":42,"pomodoroCount":0}}`, string(raw))
}

func TestDayKeyUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	accumulator := New(storage.NewMemoryKV(), Config{Location: tokyo})

	assert.Equal(t, "2026-10-15", accumulator.DayKey(time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)))
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (failingStore) Put(context.Context, string, []byte) error { return errors.New("disk gone") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("disk gone") }

func TestStoreFailuresAreReturned(t *testing.T) {
	accumulator := New(failingStore{}, Config{})
	ctx := context.Background()

	assert.Error(t, accumulator.AddWorkSeconds(ctx, 5))
	assert.Error(t, accumulator.ClearAll(ctx))
	_, err := accumulator.Today(ctx)
	assert.Error(t, err)
}

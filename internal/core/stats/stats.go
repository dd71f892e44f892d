// Package stats accumulates per-day work statistics.
package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
)

// DefaultKey is the store key holding the day→stats map.
const DefaultKey = "statsByDay"

// DayLayout formats day keys.
const DayLayout = "2006-01-02"

// Store is the key-value persistence the accumulator writes through.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DayStats is the aggregate for one calendar day.
type DayStats struct {
	WorkSeconds   int `json:"workSeconds"`
	PomodoroCount int `json:"pomodoroCount"`
}

// Day pairs a day key with its aggregate.
type Day struct {
	Date string
	DayStats
}

// Averages are per-day means over every recorded day.
type Averages struct {
	WorkSeconds   float64
	PomodoroCount float64
	Days          int
}

// Config configures an Accumulator. Zero values select defaults.
type Config struct {
	Key      string
	Clock    clockwork.Clock
	Location *time.Location
	Logger   *slog.Logger
}

// Accumulator persists the day-keyed map as a whole, with a
// read-modify-write on every mutation.
type Accumulator struct {
	mu       sync.Mutex
	store    Store
	key      string
	clock    clockwork.Clock
	location *time.Location
	logger   *slog.Logger
}

// New creates an accumulator over store.
func New(store Store, config Config) *Accumulator {
	if config.Key == "" {
		config.Key = DefaultKey
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Accumulator{
		store:    store,
		key:      config.Key,
		clock:    config.Clock,
		location: config.Location,
		logger:   config.Logger,
	}
}

// DayKey returns the local calendar day of t as YYYY-MM-DD.
func (accumulator *Accumulator) DayKey(t time.Time) string {
	return t.In(accumulator.location).Format(DayLayout)
}

// AddWorkSeconds adds to today's work seconds. Non-positive input is ignored.
func (accumulator *Accumulator) AddWorkSeconds(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	return accumulator.updateToday(ctx, func(stats *DayStats) {
		stats.WorkSeconds += seconds
	})
}

// IncrementPomodoro counts one completed work interval for today.
func (accumulator *Accumulator) IncrementPomodoro(ctx context.Context) error {
	return accumulator.updateToday(ctx, func(stats *DayStats) {
		stats.PomodoroCount++
	})
}

// Today returns today's aggregate, zero when nothing was recorded.
func (accumulator *Accumulator) Today(ctx context.Context) (DayStats, error) {
	all, err := accumulator.All(ctx)
	if err != nil {
		return DayStats{}, err
	}
	return all[accumulator.DayKey(accumulator.clock.Now())], nil
}

// Total sums every recorded day.
func (accumulator *Accumulator) Total(ctx context.Context) (DayStats, error) {
	all, err := accumulator.All(ctx)
	if err != nil {
		return DayStats{}, err
	}
	return sum(all), nil
}

// Average returns per-day means; zeros when no day is recorded.
func (accumulator *Accumulator) Average(ctx context.Context) (Averages, error) {
	all, err := accumulator.All(ctx)
	if err != nil {
		return Averages{}, err
	}
	if len(all) == 0 {
		return Averages{}, nil
	}
	total := sum(all)
	days := float64(len(all))
	return Averages{
		WorkSeconds:   float64(total.WorkSeconds) / days,
		PomodoroCount: float64(total.PomodoroCount) / days,
		Days:          len(all),
	}, nil
}

// All returns every recorded day.
func (accumulator *Accumulator) All(ctx context.Context) (map[string]DayStats, error) {
	accumulator.mu.Lock()
	defer accumulator.mu.Unlock()
	return accumulator.load(ctx)
}

// Days returns every recorded day sorted by date, oldest first.
func (accumulator *Accumulator) Days(ctx context.Context) ([]Day, error) {
	all, err := accumulator.All(ctx)
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(all))
	for _, date := range slices.Sorted(maps.Keys(all)) {
		days = append(days, Day{Date: date, DayStats: all[date]})
	}
	return days, nil
}

// ClearAll deletes every day record.
func (accumulator *Accumulator) ClearAll(ctx context.Context) error {
	accumulator.mu.Lock()
	defer accumulator.mu.Unlock()
	if err := accumulator.store.Delete(ctx, accumulator.key); err != nil {
		return errors.Wrap(err, "clear stats")
	}
	return nil
}

func (accumulator *Accumulator) updateToday(ctx context.Context, mutate func(*DayStats)) error {
	accumulator.mu.Lock()
	defer accumulator.mu.Unlock()

	all, err := accumulator.load(ctx)
	if err != nil {
		return err
	}
	day := accumulator.DayKey(accumulator.clock.Now())
	stats := all[day]
	mutate(&stats)
	all[day] = stats

	encoded, err := json.Marshal(all)
	if err != nil {
		return errors.Wrap(err, "encode stats")
	}
	if err := accumulator.store.Put(ctx, accumulator.key, encoded); err != nil {
		return errors.Wrap(err, "save stats")
	}
	return nil
}

// load reads the persisted map. Undecodable data is replaced by an empty
// map; only store failures are returned.
func (accumulator *Accumulator) load(ctx context.Context) (map[string]DayStats, error) {
	raw, found, err := accumulator.store.Get(ctx, accumulator.key)
	if err != nil {
		return nil, errors.Wrap(err, "load stats")
	}
	all := make(map[string]DayStats)
	if !found || len(raw) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		accumulator.logger.Warn("discarding undecodable stats", "key", accumulator.key, "error", err)
		return make(map[string]DayStats), nil
	}
	if all == nil {
		// A stored JSON null decodes to a nil map.
		all = make(map[string]DayStats)
	}
	for day, stats := range all {
		all[day] = DayStats{
			WorkSeconds:   max(0, stats.WorkSeconds),
			PomodoroCount: max(0, stats.PomodoroCount),
		}
	}
	return all, nil
}

func sum(all map[string]DayStats) DayStats {
	var total DayStats
	for _, stats := range all {
		total.WorkSeconds += stats.WorkSeconds
		total.PomodoroCount += stats.PomodoroCount
	}
	return total
}

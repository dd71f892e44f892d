// Package history keeps a bounded record of recent focus observations.
package history

import (
	"cmp"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"focuspomo/internal/core/model"
)

// Default bounds.
const (
	DefaultMaxCount  = 1000
	DefaultRetention = 24 * time.Hour
)

// Config controls the history bounds. Zero values select the defaults.
type Config struct {
	MaxCount  int
	Retention time.Duration
	Clock     clockwork.Clock
}

// History is a FIFO buffer trimmed by age and by count on every append.
// It is owned by the polling goroutine and is not safe for concurrent use.
type History struct {
	maxCount  int
	retention time.Duration
	clock     clockwork.Clock
	items     []model.CachedFocusState
}

// New creates an empty history.
func New(config Config) *History {
	if config.MaxCount <= 0 {
		config.MaxCount = DefaultMaxCount
	}
	if config.Retention <= 0 {
		config.Retention = DefaultRetention
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	return &History{
		maxCount:  config.MaxCount,
		retention: config.Retention,
		clock:     config.Clock,
	}
}

// Append records a snapshot and trims expired and overflowing entries.
// Age is measured from the appended snapshot; a zero ObservedAt takes the
// clock's current time.
func (history *History) Append(snapshot model.FocusSnapshot) {
	if snapshot.ObservedAt.IsZero() {
		snapshot.ObservedAt = history.clock.Now()
	}
	history.items = append(history.items, snapshot.Cached())
	history.trim(snapshot.ObservedAt)
}

// Len returns the number of retained entries.
func (history *History) Len() int {
	return len(history.items)
}

// Items returns a copy of the retained entries, oldest first.
func (history *History) Items() []model.CachedFocusState {
	return slices.Clone(history.items)
}

// Latest returns the most recent entry.
func (history *History) Latest() (model.CachedFocusState, bool) {
	if len(history.items) == 0 {
		return model.CachedFocusState{}, false
	}
	return history.items[len(history.items)-1], true
}

func (history *History) trim(newest time.Time) {
	cutoff := newest.Add(-history.retention)
	history.items = slices.DeleteFunc(history.items, func(item model.CachedFocusState) bool {
		return item.ObservedAt.Before(cutoff)
	})
	if overflow := len(history.items) - history.maxCount; overflow > 0 {
		history.items = slices.Delete(history.items, 0, overflow)
	}
}

// ProcessUsage summarises how often a process was observed.
type ProcessUsage struct {
	ProcessID    string
	DisplayName  string
	Observations int
	Share        float64
	LastSeen     time.Time
}

// TopProcesses returns the n most observed processes, most frequent first.
func (history *History) TopProcesses(n int) []ProcessUsage {
	if n <= 0 || len(history.items) == 0 {
		return nil
	}
	byID := make(map[string]*ProcessUsage)
	for _, item := range history.items {
		usage, ok := byID[item.ProcessID]
		if !ok {
			usage = &ProcessUsage{ProcessID: item.ProcessID}
			byID[item.ProcessID] = usage
		}
		usage.Observations++
		usage.DisplayName = item.DisplayName
		usage.LastSeen = item.ObservedAt
	}

	usages := make([]ProcessUsage, 0, len(byID))
	for _, usage := range byID {
		usage.Share = float64(usage.Observations) / float64(len(history.items))
		usages = append(usages, *usage)
	}
	slices.SortFunc(usages, func(a, b ProcessUsage) int {
		if byCount := cmp.Compare(b.Observations, a.Observations); byCount != 0 {
			return byCount
		}
		return cmp.Compare(a.ProcessID, b.ProcessID)
	})
	if len(usages) > n {
		usages = usages[:n]
	}
	return usages
}

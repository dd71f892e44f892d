// Package sampler takes one focus observation per poll.
package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"focuspomo/internal/core/model"
)

const (
	// PollInterval is the time between focus observations.
	PollInterval = 2 * time.Second

	// DefaultProbeTimeout bounds one observation so a slow probe cannot
	// overrun the next poll.
	DefaultProbeTimeout = 1500 * time.Millisecond
)

// Observation is a consistent read of the focused process and of the
// allow-listed processes currently running.
type Observation struct {
	Snapshot         model.FocusSnapshot
	RunningAllowlist model.IDSet
}

// Config tunes a Sampler. Zero values select the defaults.
type Config struct {
	ProbeTimeout time.Duration
	Clock        clockwork.Clock
	Logger       *slog.Logger

	// Quiet lists errors that are expected between polls and logged at
	// debug level only.
	Quiet []error
}

// Sampler wraps a Probe with the permission gate and skip-on-failure policy.
type Sampler struct {
	probe   Probe
	timeout time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	quiet   []error
}

func New(probe Probe, config Config) *Sampler {
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Sampler{
		probe:   probe,
		timeout: config.ProbeTimeout,
		clock:   config.Clock,
		logger:  config.Logger,
		quiet:   config.Quiet,
	}
}

// HasPermission reports whether focus can be observed right now.
func (sampler *Sampler) HasPermission() bool {
	return sampler.probe.HasFocusPermission()
}

// RequestPermission asks the OS for focus access. It may return false while
// the user has not yet answered.
func (sampler *Sampler) RequestPermission() bool {
	granted := sampler.probe.RequestFocusPermission()
	sampler.logger.Info("focus permission requested", "granted", granted)
	return granted
}

// Sample reads the focused window and intersects allowlist with the running
// processes. It reports false when this cycle must be skipped: permission
// missing, no focused window, or the process list could not be read.
func (sampler *Sampler) Sample(ctx context.Context, allowlist model.IDSet) (Observation, bool) {
	if !sampler.probe.HasFocusPermission() {
		sampler.logger.Debug("focus permission missing, skipping poll")
		return Observation{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, sampler.timeout)
	defer cancel()

	snapshot, err := sampler.probe.CurrentFocusSnapshot(ctx)
	if err != nil {
		sampler.logSkip("read focused window", err)
		return Observation{}, false
	}
	if snapshot.ObservedAt.IsZero() {
		snapshot.ObservedAt = sampler.clock.Now()
	}

	running := make(model.IDSet)
	if allowlist.Len() > 0 {
		found, err := sampler.probe.RunningProcessIDs(ctx, allowlist)
		if err != nil {
			sampler.logSkip("list running processes", err)
			return Observation{}, false
		}
		running = allowlist.Intersect(found)
	}

	return Observation{Snapshot: snapshot, RunningAllowlist: running}, true
}

func (sampler *Sampler) logSkip(step string, err error) {
	for _, quiet := range sampler.quiet {
		if errors.Is(err, quiet) {
			sampler.logger.Debug("skipping poll", "step", step, "error", err)
			return
		}
	}
	sampler.logger.Warn("skipping poll", "step", step, "error", err)
}

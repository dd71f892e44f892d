package session

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuspomo/internal/core/history"
	"focuspomo/internal/core/model"
	"focuspomo/internal/core/sampler"
	"focuspomo/internal/core/stats"
	"focuspomo/internal/storage"
)

var start = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fakeSampler struct {
	permission   bool
	requested    int
	observations []sampler.Observation
}

func (fake *fakeSampler) HasPermission() bool { return fake.permission }

func (fake *fakeSampler) RequestPermission() bool {
	fake.requested++
	return fake.permission
}

func (fake *fakeSampler) Sample(context.Context, model.IDSet) (sampler.Observation, bool) {
	if !fake.permission || len(fake.observations) == 0 {
		return sampler.Observation{}, false
	}
	observation := fake.observations[0]
	fake.observations = fake.observations[1:]
	return observation, true
}

type failingStats struct {
	fail    bool
	seconds int
}

func (recorder *failingStats) AddWorkSeconds(_ context.Context, seconds int) error {
	if recorder.fail {
		return errors.New("disk full")
	}
	recorder.seconds += seconds
	return nil
}

func (recorder *failingStats) IncrementPomodoro(context.Context) error {
	return nil
}

type harness struct {
	controller  *Controller
	sampler     *fakeSampler
	accumulator *stats.Accumulator
	clock       *clockwork.FakeClock
	events      <-chan Event
}

func newHarness(t *testing.T, settings model.Settings) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	fake := &fakeSampler{permission: true}
	accumulator := stats.New(storage.NewMemoryKV(), stats.Config{Clock: clock, Location: time.UTC})
	controller := New(Config{
		Settings: settings,
		Self:     model.NewIDSet("focuspomo"),
		Sampler:  fake,
		Stats:    accumulator,
		History:  history.New(history.Config{Clock: clock}),
		Clock:    clock,
	})
	return &harness{
		controller:  controller,
		sampler:     fake,
		accumulator: accumulator,
		clock:       clock,
		events:      controller.Subscribe(128),
	}
}

// observe feeds one observation through the poll path.
func (h *harness) observe(processID string, fullscreen bool, running ...string) {
	h.sampler.observations = append(h.sampler.observations, sampler.Observation{
		Snapshot: model.FocusSnapshot{
			ProcessID:    processID,
			DisplayName:  processID,
			IsFullscreen: fullscreen,
			ObservedAt:   h.clock.Now(),
		},
		RunningAllowlist: model.NewIDSet(running...),
	})
	h.controller.poll(context.Background())
}

func (h *harness) drain() []Event {
	var events []Event
	for {
		select {
		case event := <-h.events:
			events = append(events, event)
		default:
			return events
		}
	}
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, event := range events {
		types = append(types, event.Type)
	}
	return types
}

func TestSuppressionHysteresis(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()

	h.controller.stop(ctx)
	require.True(t, h.controller.suppressed)

	h.observe("com.work.app", false)
	assert.False(t, h.controller.work.Running(), "work while suppressed must not start")
	assert.True(t, h.controller.suppressed)

	h.observe("com.other.app", true)
	assert.False(t, h.controller.suppressed, "non-work clears suppression")
	assert.False(t, h.controller.work.Running())

	h.observe("com.work.app", false)
	assert.True(t, h.controller.work.Running())
	assert.Equal(t, StateRunning, h.controller.state)
}

func TestAutoStartAllowlistFollowsRunningProcesses(t *testing.T) {
	settings := model.DefaultSettings()
	settings.AutoStartAllowlist = []string{"com.work.app"}
	h := newHarness(t, settings)

	h.observe("com.other.app", true, "com.work.app")
	assert.True(t, h.controller.work.Running())
	assert.Equal(t, StateRunning, h.controller.Status().State)

	h.clock.Advance(90 * time.Second)
	h.observe("com.work.app", false)
	assert.False(t, h.controller.work.Running())
	assert.Equal(t, StatePaused, h.controller.Status().State)
	assert.False(t, h.controller.suppressed, "a poll pause is not an explicit stop")

	today, err := h.accumulator.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, today.WorkSeconds)
	assert.Equal(t, 2, h.controller.history.Len())
}

func TestWorkCompletionStartsBreak(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()
	h.controller.work.SetDuration(1)

	h.controller.startWork(ctx)
	h.drain()
	h.clock.Advance(time.Second)
	h.controller.onTick(ctx, h.controller.work)

	events := h.drain()
	assert.Contains(t, eventTypes(events), EventWorkComplete)
	assert.Equal(t, StateResting, h.controller.state)
	assert.False(t, h.controller.work.Running())
	assert.True(t, h.controller.rest.Running())
	assert.Equal(t, 5*60, h.controller.rest.Remaining())
	assert.Equal(t, 1, h.controller.work.Remaining())

	today, err := h.accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.DayStats{WorkSeconds: 1, PomodoroCount: 1}, today)
}

func TestBreakCompletionSuppressesAndPauses(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()
	h.controller.work.SetDuration(1)
	h.controller.rest.SetDuration(2)

	h.controller.startWork(ctx)
	h.controller.onTick(ctx, h.controller.work)
	h.drain()

	h.controller.onTick(ctx, h.controller.rest)
	h.controller.onTick(ctx, h.controller.rest)

	events := h.drain()
	assert.Equal(t, []EventType{
		EventBreakTick,
		EventBreakTick,
		EventStateChange,
		EventBreakComplete,
		EventStateChange,
	}, eventTypes(events))
	assert.Equal(t, StateCompleted, events[2].State)
	assert.Equal(t, StatePaused, events[4].State)
	assert.True(t, h.controller.suppressed)
	assert.False(t, h.controller.rest.Running())

	h.observe("com.work.app", false)
	assert.False(t, h.controller.work.Running(), "finished break must not resume silently")
}

func TestSelfFocusIsIgnored(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()

	h.controller.startWork(ctx)
	h.observe("focuspomo", true)
	assert.True(t, h.controller.work.Running(), "own window must not pause the session")

	h.controller.stop(ctx)
	h.observe("focuspomo", false)
	assert.True(t, h.controller.suppressed, "indeterminate leaves suppression alone")
}

func TestFullscreenRules(t *testing.T) {
	settings := model.DefaultSettings()
	settings.FullscreenAllowlist = []string{"com.work.app"}
	h := newHarness(t, settings)

	h.observe("com.work.app", true)
	assert.True(t, h.controller.work.Running())

	h.observe("com.other.app", true)
	assert.False(t, h.controller.work.Running())
}

func TestPollSkippedWithoutAutoStartOrPermission(t *testing.T) {
	settings := model.DefaultSettings()
	settings.AutoStart = false
	h := newHarness(t, settings)

	h.observe("com.work.app", false)
	assert.False(t, h.controller.work.Running())
	assert.Zero(t, h.controller.history.Len())

	h = newHarness(t, model.DefaultSettings())
	h.sampler.permission = false
	h.observe("com.work.app", false)
	assert.False(t, h.controller.work.Running())
}

func TestToggle(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()

	h.controller.toggle(ctx)
	assert.True(t, h.controller.work.Running())
	assert.Equal(t, StateRunning, h.controller.state)

	h.clock.Advance(30 * time.Second)
	h.controller.toggle(ctx)
	assert.False(t, h.controller.work.Running())
	assert.True(t, h.controller.suppressed)
	assert.Equal(t, StatePaused, h.controller.state)

	today, err := h.accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, today.WorkSeconds)
}

func TestToggleDuringBreakStartsWork(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()
	h.controller.work.SetDuration(1)

	h.controller.startWork(ctx)
	h.controller.onTick(ctx, h.controller.work)
	require.True(t, h.controller.rest.Running())

	h.controller.toggle(ctx)
	assert.False(t, h.controller.rest.Running())
	assert.True(t, h.controller.work.Running())
	assert.False(t, h.controller.suppressed)
}

func TestReset(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()

	h.controller.startWork(ctx)
	h.clock.Advance(10 * time.Second)
	h.controller.onTick(ctx, h.controller.work)
	require.Equal(t, 25*60-1, h.controller.work.Remaining())

	h.controller.reset(ctx)
	assert.Equal(t, StateIdle, h.controller.state)
	assert.Equal(t, 25*60, h.controller.work.Remaining())
	assert.False(t, h.controller.work.Running())
	assert.True(t, h.controller.suppressed)

	today, err := h.accumulator.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, today.WorkSeconds)
}

func TestFlushKeepsSecondsOnError(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	recorder := &failingStats{fail: true}
	controller := New(Config{
		Settings: model.DefaultSettings(),
		Sampler:  &fakeSampler{},
		Stats:    recorder,
		Clock:    clock,
	})
	ctx := context.Background()

	controller.startWork(ctx)
	clock.Advance(20 * time.Second)
	controller.pauseWork(ctx)
	assert.Equal(t, 20, controller.accumulated)

	recorder.fail = false
	controller.startWork(ctx)
	clock.Advance(5 * time.Second)
	controller.pauseWork(ctx)
	assert.Zero(t, controller.accumulated)
	assert.Equal(t, 25, recorder.seconds)
}

func TestApplySettingsShortensRunningTimer(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx := context.Background()

	h.controller.startWork(ctx)
	for range 60 {
		h.controller.onTick(ctx, h.controller.work)
	}
	require.Equal(t, 24*60, h.controller.work.Remaining())

	settings := model.DefaultSettings()
	settings.WorkMinutes = 10
	settings.BreakMinutes = 0
	h.controller.applySettings(ctx, settings)

	assert.Equal(t, 10*60, h.controller.work.Remaining())
	assert.Equal(t, 60, h.controller.rest.Total(), "break clamps to one minute")
	assert.True(t, h.controller.work.Running())
}

func TestApplySettingsWhileStopped(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	settings := model.DefaultSettings()
	settings.WorkMinutes = 50
	settings.AutoStart = false

	h.controller.applySettings(context.Background(), settings)
	status := h.controller.Status()
	assert.Equal(t, 50*60, status.Work.RemainingSeconds)
	assert.False(t, status.AutoStart)
}

func TestRunFlushesOnShutdown(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.controller.Run(ctx) }()

	h.controller.Start()
	require.Eventually(t, func() bool {
		return h.controller.Status().State == StateRunning
	}, 2*time.Second, 5*time.Millisecond)

	h.clock.Advance(45 * time.Second)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not stop")
	}

	for range h.events {
	}
	today, err := h.accumulator.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, today.WorkSeconds)

	_, err = h.controller.RecentFocus(context.Background(), 5)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestRunEmitsPermissionRequired(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	h.sampler.permission = false
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.controller.Run(ctx) }()

	select {
	case event := <-h.events:
		assert.Equal(t, EventPermissionRequired, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no permission event")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestRecentFocusServedByLoop(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())
	h.observe("com.work.app", false)
	h.observe("com.work.app", false)
	h.observe("com.chat.app", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- h.controller.Run(ctx) }()

	usage, err := h.controller.RecentFocus(ctx, 1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "com.work.app", usage[0].ProcessID)
	assert.Equal(t, 2, usage[0].Observations)

	cancel()
	require.NoError(t, <-done)
}

func TestRecentFocusReturnsWhenRunStops(t *testing.T) {
	h := newHarness(t, model.DefaultSettings())

	// Queued before the loop starts; the loop may exit without serving it.
	answered := make(chan error, 1)
	go func() {
		_, err := h.controller.RecentFocus(context.Background(), 5)
		answered <- err
	}()
	require.Eventually(t, func() bool { return len(h.controller.requests) == 1 }, 2*time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.controller.Run(ctx))

	select {
	case err := <-answered:
		if err != nil {
			assert.ErrorIs(t, err, ErrStopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RecentFocus blocked after Run returned")
	}
}

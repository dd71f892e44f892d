// Package session drives the work and break timers from focus observations.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"focuspomo/internal/core/history"
	"focuspomo/internal/core/model"
	"focuspomo/internal/core/rules"
	"focuspomo/internal/core/sampler"
	"focuspomo/internal/core/timekeeper"
)

const (
	defaultRequestBuffer = 16
	shutdownFlushTimeout = 2 * time.Second
)

var (
	// ErrStopped is returned by queries made after Run has returned.
	ErrStopped = errors.New("session controller stopped")

	// ErrBusy is returned when the request queue is full.
	ErrBusy = errors.New("session controller busy")
)

// FocusSampler takes one observation per poll.
type FocusSampler interface {
	HasPermission() bool
	RequestPermission() bool
	Sample(ctx context.Context, allowlist model.IDSet) (sampler.Observation, bool)
}

// StatsRecorder receives the results of work sessions.
type StatsRecorder interface {
	AddWorkSeconds(ctx context.Context, seconds int) error
	IncrementPomodoro(ctx context.Context) error
}

// Config contains the controller collaborators and initial settings.
type Config struct {
	Settings model.Settings

	// Self lists the process ids of the agent's own UI.
	Self model.IDSet

	Sampler FocusSampler
	Stats   StatsRecorder
	History *history.History
	Clock   clockwork.Clock
	Logger  *slog.Logger

	RequestBuffer int
}

// Controller owns the session state machine. All transitions run on the
// goroutine executing Run; the exported commands are queued onto it.
type Controller struct {
	sampler FocusSampler
	stats   StatsRecorder
	history *history.History
	clock   clockwork.Clock
	logger  *slog.Logger
	self    model.IDSet

	ruleConfig model.RuleConfig
	autoStart  bool

	work *timekeeper.Timer
	rest *timekeeper.Timer

	state        State
	suppressed   bool
	sessionStart time.Time
	accumulated  int

	requests chan func(context.Context)
	// done is closed once Run has stopped serving requests.
	done chan struct{}

	mu          sync.Mutex
	subscribers []chan Event
	status      Status
	closed      bool
}

// New creates an idle controller.
func New(config Config) *Controller {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.History == nil {
		config.History = history.New(history.Config{Clock: config.Clock})
	}
	if config.RequestBuffer <= 0 {
		config.RequestBuffer = defaultRequestBuffer
	}
	settings := config.Settings.Normalize()

	controller := &Controller{
		sampler:    config.Sampler,
		stats:      config.Stats,
		history:    config.History,
		clock:      config.Clock,
		logger:     config.Logger,
		self:       config.Self,
		ruleConfig: settings.RuleConfig(),
		autoStart:  settings.AutoStart,
		work:       timekeeper.New(timekeeper.PhaseWork, seconds(settings.WorkDuration()), config.Clock),
		rest:       timekeeper.New(timekeeper.PhaseBreak, seconds(settings.BreakDuration()), config.Clock),
		state:      StateIdle,
		requests:   make(chan func(context.Context), config.RequestBuffer),
		done:       make(chan struct{}),
	}
	controller.publish()
	return controller
}

// Subscribe registers a new observer channel. Events are dropped for a
// subscriber whose buffer is full. Channels are closed when Run returns.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.subscribers = append(controller.subscribers, ch)
	return ch
}

// Status returns the state published after the last transition.
func (controller *Controller) Status() Status {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.status
}

// Run polls focus and drives the timers until ctx is done. Pending work
// time is flushed before it returns.
func (controller *Controller) Run(ctx context.Context) error {
	poll := controller.clock.NewTicker(sampler.PollInterval)
	defer poll.Stop()
	defer controller.shutdown(ctx)

	if controller.autoStart && !controller.sampler.HasPermission() {
		controller.logger.Warn("focus permission not granted, auto-start is inactive")
		controller.emit(EventPermissionRequired, 0)
	}
	controller.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.Chan():
			controller.poll(ctx)
		case <-controller.work.C():
			controller.onTick(ctx, controller.work)
		case <-controller.rest.C():
			controller.onTick(ctx, controller.rest)
		case request := <-controller.requests:
			request(ctx)
		}
	}
}

// Start begins or resumes the work timer and clears suppression.
func (controller *Controller) Start() {
	controller.submit("start", controller.startWork)
}

// StartNext answers a continuation prompt with "start next session".
func (controller *Controller) StartNext() {
	controller.submit("start next", controller.startWork)
}

// Toggle pauses a running work session, otherwise starts one.
func (controller *Controller) Toggle() {
	controller.submit("toggle", controller.toggle)
}

// Stop ends the current phase and suppresses auto-start until the user
// leaves the work context.
func (controller *Controller) Stop() {
	controller.submit("stop", controller.stop)
}

// Reset rewinds both timers and returns to idle.
func (controller *Controller) Reset() {
	controller.submit("reset", controller.reset)
}

// ApplySettings replaces the rule policy and timer durations.
func (controller *Controller) ApplySettings(settings model.Settings) {
	controller.submit("apply settings", func(ctx context.Context) {
		controller.applySettings(ctx, settings)
	})
}

// RequestFocusPermission asks the OS for focus access.
func (controller *Controller) RequestFocusPermission() bool {
	return controller.sampler.RequestPermission()
}

// RecentFocus summarizes the retained focus history, most observed first.
func (controller *Controller) RecentFocus(ctx context.Context, limit int) ([]history.ProcessUsage, error) {
	controller.mu.Lock()
	closed := controller.closed
	controller.mu.Unlock()
	if closed {
		return nil, ErrStopped
	}

	result := make(chan []history.ProcessUsage, 1)
	if !controller.submit("recent focus", func(context.Context) {
		result <- controller.history.TopProcesses(limit)
	}) {
		return nil, ErrBusy
	}
	select {
	case usage := <-result:
		return usage, nil
	case <-controller.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (controller *Controller) submit(name string, request func(context.Context)) bool {
	select {
	case controller.requests <- request:
		return true
	default:
		controller.logger.Warn("controller busy, dropping request", "request", name)
		return false
	}
}

func (controller *Controller) poll(ctx context.Context) {
	if !controller.autoStart {
		return
	}
	observation, ok := controller.sampler.Sample(ctx, controller.ruleConfig.AutoStartAllowlist)
	if !ok {
		return
	}
	controller.history.Append(observation.Snapshot)
	controller.evaluate(ctx, observation)
}

// evaluate applies one observation. Suppression is updated before the
// start/pause decision.
func (controller *Controller) evaluate(ctx context.Context, observation sampler.Observation) {
	classification := rules.Evaluate(observation.Snapshot, controller.self, observation.RunningAllowlist, controller.ruleConfig)
	if classification == rules.Indeterminate {
		return
	}
	isWork := classification == rules.Work

	controller.suppressed = NextSuppression(controller.suppressed, isWork)

	switch {
	case ShouldStartWork(isWork, controller.work.Running(), controller.rest.Running(), controller.suppressed):
		controller.logger.Info("work context detected, starting session", "process", observation.Snapshot.ProcessID)
		controller.startWork(ctx)
	case ShouldPauseWork(isWork, controller.work.Running()):
		controller.logger.Info("left work context, pausing session", "process", observation.Snapshot.ProcessID)
		controller.pauseWork(ctx)
	default:
		controller.publish()
	}
}

func (controller *Controller) startWork(context.Context) {
	controller.suppressed = false
	controller.rest.Pause()
	if controller.sessionStart.IsZero() {
		controller.sessionStart = controller.clock.Now()
	}
	controller.work.Start()
	controller.setState(StateRunning)
}

func (controller *Controller) pauseWork(ctx context.Context) {
	controller.work.Pause()
	controller.flush(ctx)
	controller.setState(StatePaused)
}

func (controller *Controller) toggle(ctx context.Context) {
	if controller.work.Running() {
		controller.suppressed = true
		controller.pauseWork(ctx)
		return
	}
	controller.startWork(ctx)
}

func (controller *Controller) stop(ctx context.Context) {
	controller.work.Pause()
	controller.rest.Pause()
	controller.flush(ctx)
	controller.suppressed = true
	controller.setState(StatePaused)
}

func (controller *Controller) reset(ctx context.Context) {
	controller.work.Reset()
	controller.rest.Reset()
	controller.flush(ctx)
	controller.suppressed = true
	controller.setState(StateIdle)
	controller.emit(EventWorkTick, controller.work.Remaining())
}

func (controller *Controller) applySettings(ctx context.Context, settings model.Settings) {
	settings = settings.Normalize()
	controller.ruleConfig = settings.RuleConfig()
	controller.autoStart = settings.AutoStart

	if controller.work.SetDuration(seconds(settings.WorkDuration())) {
		controller.completeWork(ctx)
	}
	if controller.rest.SetDuration(seconds(settings.BreakDuration())) {
		controller.completeBreak()
	}
	controller.logger.Info("settings applied",
		"work_minutes", settings.WorkMinutes,
		"break_minutes", settings.BreakMinutes,
		"auto_start", settings.AutoStart,
	)
	controller.publish()
	controller.emit(EventWorkTick, controller.work.Remaining())
}

func (controller *Controller) onTick(ctx context.Context, timer *timekeeper.Timer) {
	step, ok := timer.Tick()
	if !ok {
		return
	}
	switch step.Phase {
	case timekeeper.PhaseWork:
		controller.emit(EventWorkTick, step.Remaining)
		if step.Completed {
			controller.completeWork(ctx)
		}
	case timekeeper.PhaseBreak:
		controller.emit(EventBreakTick, step.Remaining)
		if step.Completed {
			controller.completeBreak()
		}
	}
	controller.publish()
}

func (controller *Controller) completeWork(ctx context.Context) {
	controller.flush(ctx)
	if err := controller.stats.IncrementPomodoro(ctx); err != nil {
		controller.logger.Error("record pomodoro", "error", err)
	} else {
		controller.emit(EventStatsChange, 0)
	}
	controller.emit(EventWorkComplete, 0)

	controller.work.Pause()
	controller.rest.Reset()
	controller.rest.Start()
	controller.setState(StateResting)
	controller.emit(EventBreakTick, controller.rest.Remaining())
}

// completeBreak leaves auto-start suppressed so a finished break never
// resumes work silently.
func (controller *Controller) completeBreak() {
	controller.suppressed = true
	controller.setState(StateCompleted)
	controller.emit(EventBreakComplete, 0)
	controller.setState(StatePaused)
}

// flush moves the wall-clock time since the session started into the
// stats. On a write error the seconds stay buffered for the next flush.
func (controller *Controller) flush(ctx context.Context) {
	if !controller.sessionStart.IsZero() {
		elapsed := controller.clock.Since(controller.sessionStart)
		controller.accumulated += max(0, int(elapsed/time.Second))
		controller.sessionStart = time.Time{}
	}
	if controller.accumulated == 0 {
		return
	}
	if err := controller.stats.AddWorkSeconds(ctx, controller.accumulated); err != nil {
		controller.logger.Error("record work time", "seconds", controller.accumulated, "error", err)
		return
	}
	controller.logger.Debug("work time recorded", "seconds", controller.accumulated)
	controller.accumulated = 0
	controller.emit(EventStatsChange, 0)
}

func (controller *Controller) shutdown(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()

	controller.work.Pause()
	controller.rest.Pause()
	controller.flush(flushCtx)
	controller.publish()

	controller.mu.Lock()
	subscribers := controller.subscribers
	controller.subscribers = nil
	if !controller.closed {
		close(controller.done)
	}
	controller.closed = true
	controller.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

func (controller *Controller) setState(state State) {
	changed := controller.state != state
	controller.state = state
	controller.publish()
	if changed {
		controller.logger.Debug("session state changed", "state", state)
		controller.emit(EventStateChange, 0)
	}
}

func (controller *Controller) publish() {
	status := Status{
		State:      controller.state,
		Suppressed: controller.suppressed,
		AutoStart:  controller.autoStart,
		Work:       controller.work.State(),
		Break:      controller.rest.State(),
	}
	controller.mu.Lock()
	controller.status = status
	controller.mu.Unlock()
}

func (controller *Controller) emit(eventType EventType, remaining int) {
	event := Event{
		Type:      eventType,
		State:     controller.state,
		Remaining: remaining,
		At:        controller.clock.Now(),
	}
	controller.mu.Lock()
	defer controller.mu.Unlock()
	for _, ch := range controller.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func seconds(duration time.Duration) int {
	return int(duration / time.Second)
}

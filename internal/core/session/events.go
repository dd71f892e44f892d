package session

import (
	"time"

	"focuspomo/internal/core/timekeeper"
)

// State is the high-level session mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateResting State = "resting"
	// StateCompleted is shown while a finished break is handled and then
	// gives way to StatePaused.
	StateCompleted State = "completed"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventWorkTick           EventType = "work_tick"
	EventBreakTick          EventType = "break_tick"
	EventWorkComplete       EventType = "work_complete"
	EventBreakComplete      EventType = "break_complete"
	EventStateChange        EventType = "state_change"
	EventStatsChange        EventType = "stats_change"
	EventPermissionRequired EventType = "permission_required"
)

// Event is a controller update for the presentation layer.
type Event struct {
	Type      EventType
	State     State
	Remaining int
	At        time.Time
}

// Status is a point-in-time view of the controller.
type Status struct {
	State      State
	Suppressed bool
	AutoStart  bool
	Work       timekeeper.State
	Break      timekeeper.State
}

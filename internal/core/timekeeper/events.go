package timekeeper

// Phase names the countdown a Timer drives.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Step is the outcome of a single tick.
type Step struct {
	Phase     Phase
	Remaining int
	Completed bool
}

// State is a read-only view of a Timer.
type State struct {
	TotalSeconds     int
	RemainingSeconds int
	Running          bool
}

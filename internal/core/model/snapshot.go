package model

import "time"

// FocusSnapshot is a point-in-time observation of the focused process.
type FocusSnapshot struct {
	ProcessID    string
	DisplayName  string
	IsFullscreen bool
	ObservedAt   time.Time
}

// CachedFocusState is the projection of a snapshot kept in the recent
// focus history.
type CachedFocusState struct {
	ProcessID    string
	DisplayName  string
	IsFullscreen bool
	ObservedAt   time.Time
}

// Cached trims a snapshot down to its history projection.
func (snapshot FocusSnapshot) Cached() CachedFocusState {
	return CachedFocusState{
		ProcessID:    snapshot.ProcessID,
		DisplayName:  snapshot.DisplayName,
		IsFullscreen: snapshot.IsFullscreen,
		ObservedAt:   snapshot.ObservedAt,
	}
}

// Package rules decides whether a focus observation counts as work.
package rules

import "focuspomo/internal/core/model"

// DesignatedBrowserID is the browser whose fullscreen windows are never
// treated as work, whatever the allow-lists say.
const DesignatedBrowserID = "com.apple.Safari"

// Classification is the outcome of evaluating one observation.
type Classification int

const (
	// Indeterminate means the observation must not influence the timer.
	Indeterminate Classification = iota
	Work
	NonWork
)

func (classification Classification) String() string {
	switch classification {
	case Work:
		return "work"
	case NonWork:
		return "non_work"
	default:
		return "indeterminate"
	}
}

// Classify reports whether the snapshot counts as work under config.
//
// A non-empty auto-start allow-list switches the policy from focus-based to
// presence-based: work is active whenever any listed process is running,
// whatever is focused.
func Classify(snapshot model.FocusSnapshot, runningAllowlist model.IDSet, config model.RuleConfig) bool {
	if config.AutoStartAllowlist.Len() > 0 {
		return config.AutoStartAllowlist.Intersects(runningAllowlist)
	}
	if snapshot.IsFullscreen {
		if snapshot.ProcessID == DesignatedBrowserID {
			return false
		}
		if config.FullscreenNonWork && !config.FullscreenAllowlist.Has(snapshot.ProcessID) {
			return false
		}
	}
	return true
}

// Evaluate wraps Classify with the self-focus rule: while the agent's own
// UI is focused and no auto-start allow-list is configured the result is
// Indeterminate.
func Evaluate(snapshot model.FocusSnapshot, self model.IDSet, runningAllowlist model.IDSet, config model.RuleConfig) Classification {
	if config.AutoStartAllowlist.Len() == 0 && self.Has(snapshot.ProcessID) {
		return Indeterminate
	}
	if Classify(snapshot, runningAllowlist, config) {
		return Work
	}
	return NonWork
}

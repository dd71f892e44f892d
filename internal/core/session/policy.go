package session

// NextSuppression keeps auto-start disabled only while the user stays in a
// work context. The first non-work observation re-arms it.
func NextSuppression(suppressed, isWork bool) bool {
	return suppressed && isWork
}

// ShouldStartWork reports whether a poll may auto-start the work timer.
func ShouldStartWork(isWork, workRunning, breakRunning, suppressed bool) bool {
	return isWork && !workRunning && !breakRunning && !suppressed
}

// ShouldPauseWork reports whether a poll must pause the work timer.
func ShouldPauseWork(isWork, workRunning bool) bool {
	return !isWork && workRunning
}

package sim

import "math"

// StageProgress maps elapsed time onto a [0,100] completion percentage for a
// phase window. Callers guarantee end > start (script validation enforces it).
func StageProgress(t, start, end int) int {
	if t < start {
		return 0
	}
	if t > end {
		return 100
	}
	frac := float64(t-start) / float64(end-start)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return int(math.Round(100 * frac))
}

// StageStatus derives the discrete status from progress and the window.
// The branch order is load-bearing: the final Queued arm is reachable when
// progress is 0 while t >= start, and that behavior is kept as-is.
func StageStatus(progress, t, start, end int) AgentStatus {
	switch {
	case t < start:
		return StatusQueued
	case progress > 0 && progress < 20:
		return StatusPlanning
	case progress >= 20 && progress < 95:
		return StatusRunning
	case progress >= 95 && t < end:
		return StatusNeedsReview
	case t >= end:
		return StatusDone
	default:
		return StatusQueued
	}
}

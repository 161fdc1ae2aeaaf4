package monitoring

import "sync/atomic"

// Grasp decision counters. Incremented by the grasp engine per step so
// long-running episodes can be summarised without persisting every event.
var (
	// GraspAttempts counts grasp commands received while unattached.
	GraspAttempts atomic.Int64
	// GraspCommits counts attachments committed to the collaborator.
	GraspCommits atomic.Int64
	// NoCandidate counts grasp attempts where no candidate qualified.
	NoCandidate atomic.Int64
	// Releases counts detach transitions.
	Releases atomic.Int64
	// SelectorFailures counts selector evaluations aborted by a
	// collaborator error (failed render, unknown entity).
	SelectorFailures atomic.Int64
)

// Snapshot returns the current counter values keyed by name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"grasp_attempts":    GraspAttempts.Load(),
		"grasp_commits":     GraspCommits.Load(),
		"no_candidate":      NoCandidate.Load(),
		"releases":          Releases.Load(),
		"selector_failures": SelectorFailures.Load(),
	}
}

// ResetCounters zeroes all counters. Intended for tests and episode
// boundaries.
func ResetCounters() {
	GraspAttempts.Store(0)
	GraspCommits.Store(0)
	NoCandidate.Store(0)
	Releases.Store(0)
	SelectorFailures.Store(0)
}

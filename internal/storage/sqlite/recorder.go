package sqlite

import (
	"github.com/helix-robotics/graspcore/internal/grasp"
	"github.com/helix-robotics/graspcore/internal/monitoring"
)

// Recorder adapts an EventStore to the manager's event sink. Insert
// failures are logged and dropped; the control loop never blocks on the
// recording path.
type Recorder struct {
	store     *EventStore
	episodeID string
}

// NewRecorder builds a sink that tags every event with episodeID.
func NewRecorder(store *EventStore, episodeID string) *Recorder {
	return &Recorder{store: store, episodeID: episodeID}
}

func (r *Recorder) GraspCommitted(target grasp.TargetRef, mode grasp.Mode, distance float64) {
	err := r.store.Insert(&GraspEvent{
		EpisodeID: r.episodeID,
		Event:     EventGrasp,
		Mode:      string(mode),
		Target:    target.String(),
		Distance:  distance,
	})
	if err != nil {
		monitoring.Logf("event store: recording grasp of %s: %v", target, err)
	}
}

func (r *Recorder) Released(target grasp.TargetRef) {
	err := r.store.Insert(&GraspEvent{
		EpisodeID: r.episodeID,
		Event:     EventRelease,
		Target:    target.String(),
	})
	if err != nil {
		monitoring.Logf("event store: recording release of %s: %v", target, err)
	}
}

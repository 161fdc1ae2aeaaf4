package grasp

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
)

// ProximityConfig tunes the proximity ("magic") selector.
type ProximityConfig struct {
	// ThresholdDist is the strict upper bound on end-effector distance
	// for a candidate to qualify.
	ThresholdDist float64
	// SnapOffset is the fixed forward offset of the attachment frame
	// along the end-effector X axis.
	SnapOffset float64
}

// ProximitySelector picks the nearest graspable target within a distance
// threshold. It is a pure distance gate: contacts and line of sight are
// never consulted, so it can select an object behind a wall. That is
// accepted behaviour, not a bug.
type ProximitySelector struct {
	sim   sim.Simulator
	robot sim.Robot
	cfg   ProximityConfig
}

// NewProximitySelector builds a proximity selector over the given
// collaborators.
func NewProximitySelector(s sim.Simulator, r sim.Robot, cfg ProximityConfig) *ProximitySelector {
	return &ProximitySelector{sim: s, robot: r, cfg: cfg}
}

// Mode implements Selector.
func (s *ProximitySelector) Mode() Mode { return ModeProximity }

// Select scans scene entities first, then markers. Each pass takes the
// argmin of Euclidean distance (ties to the lowest index) and accepts
// only if strictly under the threshold; an empty pass is skipped.
func (s *ProximitySelector) Select() (Plan, bool, error) {
	ee := s.robot.EETransform().Translation()

	// Pass 1: scene entities.
	positions := s.sim.ScenePositions()
	if len(positions) > 0 {
		dists := make([]float64, len(positions))
		for i, p := range positions {
			dists[i] = geom.Dist(ee, p)
		}
		idx := floats.MinIdx(dists)
		if dists[idx] < s.cfg.ThresholdDist {
			ids := s.sim.SceneObjectIDs()
			return Plan{
				Target:      sim.EntityTarget(ids[idx]),
				Frame:       offsetFrame(s.cfg.SnapOffset),
				OpenGripper: true,
				Distance:    dists[idx],
			}, true, nil
		}
	}

	// Pass 2: markers.
	markers := s.sim.Markers()
	if len(markers) > 0 {
		dists := make([]float64, len(markers))
		for i, m := range markers {
			dists[i] = geom.Dist(ee, m.Position)
		}
		idx := floats.MinIdx(dists)
		if dists[idx] < s.cfg.ThresholdDist {
			return Plan{
				Target:      sim.MarkerTarget(markers[idx].Name),
				OpenGripper: true,
				Distance:    dists[idx],
			}, true, nil
		}
	}

	return Plan{}, false, nil
}

// offsetFrame builds the fixed forward-offset attachment frame shared by
// the proximity and gaze entity snaps.
func offsetFrame(offset float64) *AttachmentFrame {
	off := r3.Vec{X: offset}
	return &AttachmentFrame{KeepT: geom.Translate(off), RelPos: off}
}

package grasp

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/grasp/vision"
	"github.com/helix-robotics/graspcore/internal/robots"
	"github.com/helix-robotics/graspcore/internal/sim"
)

// GazeConfig tunes the vision-based selector.
type GazeConfig struct {
	// MinDist/MaxDist bound the candidate distance from the grasp
	// camera. Rejection is strict (< / >), so a candidate exactly at a
	// boundary is accepted.
	MinDist float64
	MaxDist float64
	// SnapOffset is the fixed forward offset of the attachment frame,
	// shared with the proximity selector.
	SnapOffset float64
	// SinkY is the Y coordinate objects are displaced to while the
	// "object absent" depth image renders. It must be unreachable by
	// any other scene geometry.
	SinkY float64
	// BlurKernel is the denoise window for the visibility mask. Zero
	// selects vision.DefaultBlurKernel.
	BlurKernel int
	// ConeAngleRad, when positive, enables a geometric pre-gate:
	// candidates whose camera-frame direction deviates from ConeAxis by
	// more than this angle are skipped before any rendering. Disabled
	// by default; the image-mask centring test is the active
	// acceptance criterion either way.
	ConeAngleRad float64
	ConeAxis     r3.Vec
}

// GazeSelector accepts the first scene entity that is centred in the
// robot's grasp camera and within the configured distance band.
// Centredness is decided by depth-image differencing rather than
// camera-intrinsics projection so that occlusion by other geometry is
// accounted for: an object hidden behind a shelf produces no depth
// difference at the centre pixel.
//
// Evaluating a candidate displaces it to a sink position and restores
// it, with a pose-only Step(0) after each move. This mutation of global
// scene state is why candidates must be evaluated one at a time on the
// single simulation thread.
type GazeSelector struct {
	sim         sim.Simulator
	robot       sim.Robot
	cfg         GazeConfig
	depthCamera string
	poseCamera  string
}

// NewGazeSelector resolves the robot's grasp cameras through the
// capability table and builds the selector. A robot kind without the
// required cameras yields ErrUnsupportedRobot.
func NewGazeSelector(s sim.Simulator, r sim.Robot, cfg GazeConfig) (*GazeSelector, error) {
	depth, err := robots.CameraNameFor(r.Kind(), robots.PurposeGraspDepth)
	if err != nil {
		return nil, err
	}
	pose, err := robots.CameraNameFor(r.Kind(), robots.PurposeGraspPose)
	if err != nil {
		return nil, err
	}
	if cfg.BlurKernel <= 0 {
		cfg.BlurKernel = vision.DefaultBlurKernel
	}
	return &GazeSelector{
		sim:         s,
		robot:       r,
		cfg:         cfg,
		depthCamera: depth,
		poseCamera:  pose,
	}, nil
}

// Mode implements Selector.
func (s *GazeSelector) Mode() Mode { return ModeGaze }

// Select scans scene entities in fixed order and returns the first one
// passing both the distance gate and the centring test. A candidate
// failing the distance gate is never rendered.
func (s *GazeSelector) Select() (Plan, bool, error) {
	camT, err := s.sim.CameraTransform(s.poseCamera)
	if err != nil {
		return Plan{}, false, fmt.Errorf("camera transform %q: %w", s.poseCamera, err)
	}
	camPos := camT.Translation()

	ids := s.sim.SceneObjectIDs()
	positions := s.sim.ScenePositions()
	for i, id := range ids {
		dist := geom.Dist(positions[i], camPos)
		if dist < s.cfg.MinDist || dist > s.cfg.MaxDist {
			continue
		}

		if s.cfg.ConeAngleRad > 0 {
			dir := geom.Normalize(camT.Inverse().TransformPoint(positions[i]))
			if geom.AngleBetween(dir, s.cfg.ConeAxis) > s.cfg.ConeAngleRad {
				continue
			}
		}

		centred, err := s.centred(id)
		if err != nil {
			return Plan{}, false, err
		}
		if !centred {
			continue
		}

		ee := s.robot.EETransform().Translation()
		return Plan{
			Target:      sim.EntityTarget(id),
			Frame:       offsetFrame(s.cfg.SnapOffset),
			OpenGripper: true,
			Distance:    geom.Dist(ee, positions[i]),
		}, true, nil
	}

	return Plan{}, false, nil
}

// centred runs the sink-and-restore visibility check for one entity:
// render with the object present, displace it to the sink and refresh
// poses, render again, restore, then test whether the difference mask's
// bounding rectangle covers the image centre. Once the object has been
// displaced, restoration runs on every exit path, including render
// failure.
func (s *GazeSelector) centred(id sim.EntityID) (ok bool, err error) {
	orig, err := s.sim.ObjectTransform(id)
	if err != nil {
		return false, fmt.Errorf("object transform for entity %d: %w", id, err)
	}

	withObj, err := s.sim.RenderDepth(s.depthCamera)
	if err != nil {
		return false, fmt.Errorf("render depth %q: %w", s.depthCamera, err)
	}

	sink := orig.WithTranslation(r3.Vec{Y: s.cfg.SinkY})
	if serr := s.sim.SetObjectTransform(id, sink); serr != nil {
		return false, fmt.Errorf("sinking entity %d: %w", id, serr)
	}
	defer func() {
		if rerr := s.restore(id, orig); rerr != nil && err == nil {
			ok, err = false, rerr
		}
	}()

	if serr := s.sim.Step(0); serr != nil {
		return false, fmt.Errorf("pose-only step after sink: %w", serr)
	}

	withoutObj, err := s.sim.RenderDepth(s.depthCamera)
	if err != nil {
		return false, fmt.Errorf("render depth %q without target: %w", s.depthCamera, err)
	}

	mask, err := vision.VisibilityMask(withObj, withoutObj, s.cfg.BlurKernel)
	if err != nil {
		return false, err
	}
	return vision.CenterContained(mask), nil
}

// restore puts the entity back at its saved transform and refreshes
// poses. The saved transform is written back verbatim, so a full
// round-trip is bit-for-bit idempotent.
func (s *GazeSelector) restore(id sim.EntityID, orig geom.Mat4) error {
	if err := s.sim.SetObjectTransform(id, orig); err != nil {
		return fmt.Errorf("restoring entity %d: %w", id, err)
	}
	if err := s.sim.Step(0); err != nil {
		return fmt.Errorf("pose-only step after restore: %w", err)
	}
	return nil
}

package grasp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
	"github.com/helix-robotics/graspcore/internal/sim/simtest"
)

const (
	spotPoseCamera  = "articulated_agent_arm_rgb"
	spotDepthCamera = "articulated_agent_arm_depth"
)

func gazeCfg() GazeConfig {
	return GazeConfig{MinDist: 0.1, MaxDist: 3.0, SnapOffset: 0.1, SinkY: -15}
}

func gazeFake() *simtest.Sim {
	fake := simtest.New()
	fake.Cameras[spotPoseCamera] = geom.Identity()
	return fake
}

// renderScene draws a 9x9 depth block for every listed object that is
// not currently displaced to the sink, at the given (row, col) origin on
// a 20x20 image.
func renderScene(fake *simtest.Sim, blocks map[sim.EntityID][2]int) func(string) (*mat.Dense, error) {
	return func(string) (*mat.Dense, error) {
		img := mat.NewDense(20, 20, nil)
		for id, at := range blocks {
			tr, err := fake.ObjectTransform(id)
			if err != nil {
				return nil, err
			}
			if tr.Translation().Y < -10 {
				continue // sunk out of view
			}
			for i := at[0]; i < at[0]+9 && i < 20; i++ {
				for j := at[1]; j < at[1]+9 && j < 20; j++ {
					img.Set(i, j, 2.0)
				}
			}
		}
		return img, nil
	}
}

func TestGazeAcceptsCentredObject(t *testing.T) {
	fake := gazeFake()
	fake.AddObjectAt(1, r3.Vec{X: 1})
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {6, 6}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sim.EntityTarget(1), plan.Target)
	require.NotNil(t, plan.Frame)
	assert.Equal(t, r3.Vec{X: 0.1}, plan.Frame.RelPos)
	assert.True(t, plan.OpenGripper)
}

func TestGazeRejectsOffCentreObject(t *testing.T) {
	fake := gazeFake()
	fake.AddObjectAt(1, r3.Vec{X: 1})
	// Block in the image corner: its bounding rectangle misses (10,10).
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {0, 0}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, ok, err := sel.Select()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGazeFirstAcceptedInScanOrder(t *testing.T) {
	fake := gazeFake()
	fake.AddObjectAt(1, r3.Vec{X: 1})
	fake.AddObjectAt(2, r3.Vec{X: 1.5})
	// Entity 1 renders off-centre, entity 2 centred; the scan moves past
	// 1 and stops at 2.
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {0, 0}, 2: {6, 6}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sim.EntityTarget(2), plan.Target)
}

func TestGazeDistanceGateShortCircuitsRendering(t *testing.T) {
	fake := gazeFake()
	fake.AddObjectAt(1, r3.Vec{X: 10})   // past MaxDist
	fake.AddObjectAt(2, r3.Vec{X: 0.01}) // under MinDist

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, ok, err := sel.Select()
	require.NoError(t, err)
	assert.False(t, ok)
	for _, op := range fake.Ops {
		assert.NotContains(t, op, "render", "gated candidates must never be rendered")
	}
}

func TestGazeBoundaryDistanceIsAccepted(t *testing.T) {
	fake := gazeFake()
	// Exactly at MaxDist: rejection is strict >, so this is evaluated.
	fake.AddObjectAt(1, r3.Vec{X: 3.0})
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {6, 6}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sim.EntityTarget(1), plan.Target)
}

// The sink-and-restore sequence must leave the object's transform
// bit-for-bit identical to the original.
func TestGazeRestoresTransformExactly(t *testing.T) {
	orig := geom.Mat4{
		0, -1, 0, 1,
		1, 0, 0, 0.25,
		0, 0, 1, -0.5,
		0, 0, 0, 1,
	}
	fake := gazeFake()
	fake.AddObject(1, orig)
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {6, 6}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, _, err = sel.Select()
	require.NoError(t, err)

	got, err := fake.ObjectTransform(1)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestGazeSinkRenderRestoreOrdering(t *testing.T) {
	fake := gazeFake()
	fake.AddObjectAt(1, r3.Vec{X: 1})
	fake.RenderFunc = renderScene(fake, map[sim.EntityID][2]int{1: {6, 6}})

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, _, err = sel.Select()
	require.NoError(t, err)

	want := []string{
		"render:" + spotDepthCamera,
		"set_transform:1", // sink
		"step:0",
		"render:" + spotDepthCamera,
		"set_transform:1", // restore
		"step:0",
	}
	assert.Equal(t, want, fake.Ops)
}

// A render failure mid-evaluation propagates as an error, but the
// object's transform is still restored.
func TestGazeRestoresOnRenderFailure(t *testing.T) {
	orig := geom.Translate(r3.Vec{X: 1})
	fake := gazeFake()
	fake.AddObject(1, orig)

	renders := 0
	fake.RenderFunc = func(string) (*mat.Dense, error) {
		renders++
		if renders == 2 {
			return nil, errors.New("depth buffer unavailable")
		}
		return mat.NewDense(20, 20, nil), nil
	}

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, _, err = sel.Select()
	require.Error(t, err)

	got, terr := fake.ObjectTransform(1)
	require.NoError(t, terr)
	assert.Equal(t, orig, got, "transform must be restored even when the render fails")
	// Both the sink and the restore writes happened.
	assert.Equal(t, 2, countOps(fake.Ops, "set_transform:1"))
}

func countOps(ops []string, op string) int {
	n := 0
	for _, o := range ops {
		if o == op {
			n++
		}
	}
	return n
}

func TestGazeUnsupportedRobotKind(t *testing.T) {
	robot := testRobotAtOrigin()
	robot.RobotKind = "hexapod"

	_, err := NewGazeSelector(gazeFake(), robot, gazeCfg())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedRobot))
}

func TestGazeConeGateSkipsOffAxisCandidate(t *testing.T) {
	fake := gazeFake()
	// Candidate straight along +X while the cone looks along -Z.
	fake.AddObjectAt(1, r3.Vec{X: 1})

	cfg := gazeCfg()
	cfg.ConeAngleRad = 0.2
	cfg.ConeAxis = r3.Vec{Z: -1}

	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), cfg)
	require.NoError(t, err)

	_, ok, err := sel.Select()
	require.NoError(t, err)
	assert.False(t, ok)
	for _, op := range fake.Ops {
		assert.NotContains(t, op, "render", "cone-gated candidates must never be rendered")
	}
}

func TestGazeCameraTransformFailurePropagates(t *testing.T) {
	fake := simtest.New() // no cameras registered
	sel, err := NewGazeSelector(fake, testRobotAtOrigin(), gazeCfg())
	require.NoError(t, err)

	_, _, err = sel.Select()
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%q", spotPoseCamera))
}

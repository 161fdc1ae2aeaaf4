package grasp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
	"github.com/helix-robotics/graspcore/internal/sim/simtest"
)

func gripContact(entity sim.EntityID) sim.Contact {
	return sim.Contact{ObjectA: testRobotID, ObjectB: entity, LinkA: gripLinkA}
}

func TestSuctionRequiresGripperContact(t *testing.T) {
	fake := simtest.New()
	// Candidate at distance zero from the end-effector, but untouched.
	fake.AddObjectAt(1, r3.Vec{})
	sel := NewSuctionSelector(fake, testRobotAtOrigin())

	_, ok, err := sel.Select()
	require.NoError(t, err)
	assert.False(t, ok, "contact is binary: no gripper contact, no candidate")
}

func TestSuctionFirstContactedEntityWins(t *testing.T) {
	fake := simtest.New()
	fake.AddObjectAt(1, r3.Vec{X: 0.2})
	fake.AddObjectAt(2, r3.Vec{X: 0.3})
	// Both entities touch the gripper this step; entity scan order
	// breaks the tie, not contact order.
	fake.ContactList = []sim.Contact{gripContact(2), gripContact(1)}
	sel := NewSuctionSelector(fake, testRobotAtOrigin())

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sim.EntityTarget(1), plan.Target)
}

func TestSuctionEntityFrameUsesAttachmentLink(t *testing.T) {
	objPos := r3.Vec{X: 0.5, Y: 0.2, Z: 0.1}
	fake := simtest.New()
	fake.AddObjectAt(1, objPos)
	fake.ContactList = []sim.Contact{gripContact(1)}

	robot := testRobotAtOrigin()
	robot.EE = geom.Translate(r3.Vec{X: 0.4})
	// Attachment link offset from the nominal end-effector pose, as for
	// a suction pad.
	robot.LinkT = geom.Translate(r3.Vec{X: 0.3, Z: 0.05})
	sel := NewSuctionSelector(fake, robot)

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, plan.Frame)

	// keep_T = ee_T^-1 * obj_T; with pure translations, the object pose
	// relative to the end-effector.
	assert.Equal(t, geom.Translate(r3.Sub(objPos, r3.Vec{X: 0.4})), plan.Frame.KeepT)
	// rel_pos = link_T^-1 * obj_pos.
	assert.Equal(t, r3.Sub(objPos, r3.Vec{X: 0.3, Z: 0.05}), plan.Frame.RelPos)
	assert.False(t, plan.OpenGripper, "suction grasp keeps the gripper closed")
}

func TestSuctionMarkerLastMatchWins(t *testing.T) {
	fake := simtest.New()
	fake.MarkerList = []sim.Marker{
		{Name: "handle_a", ParentID: 20, LinkID: 1},
		{Name: "handle_b", ParentID: 20, LinkID: 2},
	}
	// Both markers match a gripper contact in the same step.
	fake.ContactList = []sim.Contact{
		{ObjectA: testRobotID, ObjectB: 20, LinkA: gripLinkA, LinkB: 1},
		{ObjectA: testRobotID, ObjectB: 20, LinkA: gripLinkA, LinkB: 2},
	}
	sel := NewSuctionSelector(fake, testRobotAtOrigin())

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	// Later markers override earlier ones; this matches the scan with
	// no early exit.
	assert.Equal(t, sim.MarkerTarget("handle_b"), plan.Target)
	assert.Nil(t, plan.Frame)
	assert.False(t, plan.OpenGripper, "suction marker snap does not open the gripper")
}

func TestSuctionEntityBeatsMarker(t *testing.T) {
	fake := simtest.New()
	fake.AddObjectAt(1, r3.Vec{X: 0.2})
	fake.MarkerList = []sim.Marker{{Name: "handle", ParentID: 20, LinkID: 1}}
	fake.ContactList = []sim.Contact{
		{ObjectA: testRobotID, ObjectB: 20, LinkA: gripLinkA, LinkB: 1},
		gripContact(1),
	}
	sel := NewSuctionSelector(fake, testRobotAtOrigin())

	plan, ok, err := sel.Select()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sim.EntityTarget(1), plan.Target)
}

func TestSuctionNoMatchAmongContacts(t *testing.T) {
	fake := simtest.New()
	fake.AddObjectAt(1, r3.Vec{X: 0.2})
	// Gripper touches something that is neither a candidate entity nor
	// a marker (e.g. a wall).
	fake.ContactList = []sim.Contact{gripContact(999)}
	sel := NewSuctionSelector(fake, testRobotAtOrigin())

	_, ok, err := sel.Select()
	require.NoError(t, err)
	assert.False(t, ok)
}

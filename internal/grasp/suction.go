package grasp

import (
	"fmt"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
)

// SuctionSelector picks the first candidate the gripper is physically
// touching. Contact is binary: there is no distance fallback, and zero
// gripper contacts means no candidate regardless of how close anything
// is.
type SuctionSelector struct {
	sim   sim.Simulator
	robot sim.Robot
}

// NewSuctionSelector builds a contact-based selector over the given
// collaborators.
func NewSuctionSelector(s sim.Simulator, r sim.Robot) *SuctionSelector {
	return &SuctionSelector{sim: s, robot: r}
}

// Mode implements Selector.
func (s *SuctionSelector) Mode() Mode { return ModeSuction }

// Select filters this step's contacts to robot-gripper contacts, then
// scans scene entities in fixed order (first match wins), then markers
// (last match wins, matching the long-standing engine behaviour).
func (s *SuctionSelector) Select() (Plan, bool, error) {
	contacts := FilterRobotContacts(s.sim.Contacts(), s.robot.ID(), s.robot.GripperLinks())
	if len(contacts) == 0 {
		return Plan{}, false, nil
	}

	for _, id := range s.sim.SceneObjectIDs() {
		if !ContactsEntity(contacts, id) {
			continue
		}
		plan, err := s.entityPlan(id)
		if err != nil {
			return Plan{}, false, err
		}
		return plan, true, nil
	}

	// Markers: no early exit; a later matching marker overrides an
	// earlier one.
	var matched *sim.Marker
	markers := s.sim.Markers()
	for i := range markers {
		if ContactsMarker(contacts, markers[i]) {
			matched = &markers[i]
		}
	}
	if matched != nil {
		// Marker snap carries no frame, and unlike the proximity
		// selector the gripper is not opened.
		return Plan{
			Target:   sim.MarkerTarget(matched.Name),
			Distance: geom.Dist(s.robot.EETransform().Translation(), matched.Position),
		}, true, nil
	}

	return Plan{}, false, nil
}

// entityPlan computes the suction attachment frame for a contacted
// entity. The constraint origin is the attachment link, not the nominal
// end-effector frame, because the contact may occur away from the
// end-effector pose (e.g. a suction pad).
func (s *SuctionSelector) entityPlan(id sim.EntityID) (Plan, error) {
	objT, err := s.sim.ObjectTransform(id)
	if err != nil {
		return Plan{}, fmt.Errorf("object transform for entity %d: %w", id, err)
	}

	eeT := s.robot.EETransform()
	linkT := s.robot.AttachmentLinkTransform()
	objPos := objT.Translation()

	return Plan{
		Target: sim.EntityTarget(id),
		Frame: &AttachmentFrame{
			// Target pose expressed relative to the end-effector.
			KeepT: eeT.Inverse().Mul(objT),
			// Target position expressed in the attachment-link frame.
			RelPos: linkT.Inverse().TransformPoint(objPos),
		},
		OpenGripper: false,
		Distance:    geom.Dist(eeT.Translation(), objPos),
	}, nil
}

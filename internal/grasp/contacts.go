package grasp

import (
	"github.com/helix-robotics/graspcore/internal/sim"
)

// FilterRobotContacts returns the subset of contacts where one
// participant is the robot and one participant link belongs to the
// gripper. Contact lists are small (tens per step), so this is a plain
// linear scan.
func FilterRobotContacts(contacts []sim.Contact, robotID sim.EntityID, gripperLinks []sim.LinkID) []sim.Contact {
	var out []sim.Contact
	for _, c := range contacts {
		if !c.Involves(robotID) {
			continue
		}
		for _, link := range gripperLinks {
			if c.InvolvesLink(link) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// ContactsEntity reports whether any of the filtered contacts involves
// the given scene entity.
func ContactsEntity(contacts []sim.Contact, id sim.EntityID) bool {
	for _, c := range contacts {
		if c.Involves(id) {
			return true
		}
	}
	return false
}

// ContactsMarker reports whether any of the filtered contacts involves
// the marker's parent articulated entity on the marker's link.
func ContactsMarker(contacts []sim.Contact, m sim.Marker) bool {
	for _, c := range contacts {
		if c.Involves(m.ParentID) && c.InvolvesLink(m.LinkID) {
			return true
		}
	}
	return false
}

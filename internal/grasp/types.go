package grasp

import (
	"github.com/helix-robotics/graspcore/internal/sim"
)

// Type aliases re-export the boundary types so callers holding a grasp
// engine don't need a separate sim import for common values.

// AttachmentFrame is the rigid constraint recorded at grasp time.
type AttachmentFrame = sim.AttachmentFrame

// TargetRef identifies a graspable target (entity or marker).
type TargetRef = sim.TargetRef

// Mode names a grasp selection strategy.
type Mode string

const (
	// ModeProximity selects the nearest candidate within a distance
	// threshold ("magic" grasp). Contacts are never consulted.
	ModeProximity Mode = "proximity"
	// ModeSuction selects the first candidate in gripper contact.
	ModeSuction Mode = "suction"
	// ModeGaze selects the first candidate centred in the grasp camera
	// and within the configured distance band.
	ModeGaze Mode = "gaze"
)

// Plan is a fully specified grasp decision: which target to attach, the
// constraint frame to attach it with, and whether the gripper opens as
// part of the snap. Marker targets carry no frame.
type Plan struct {
	Target      TargetRef
	Frame       *AttachmentFrame
	OpenGripper bool
	// Distance is the end-effector distance to the target at decision
	// time. Diagnostic only; not used for the attachment itself.
	Distance float64
}

// Selector produces at most one grasp plan per step. Exactly one
// selector is active per configured mode.
type Selector interface {
	// Select returns the grasp plan for this step. ok=false means no
	// candidate qualified, which is a valid do-nothing outcome, not an
	// error. An error aborts the current step's grasp evaluation.
	Select() (plan Plan, ok bool, err error)

	// Mode returns the selection strategy name for logs and events.
	Mode() Mode
}

// Package sim defines the boundary between the grasp engine and the
// physics/render collaborator. The engine never talks to a physics or
// sensor implementation directly; everything it needs is expressed here
// as narrow interfaces plus the plain data types that cross them.
//
// Implementations are expected to be step-synchronous: every call is a
// blocking round-trip that completes before it returns, including
// Step(0) pose-only refreshes and depth renders. There are no retries
// at this boundary; a failed call is surfaced to the caller unchanged.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
)

// EntityID identifies a rigid scene object managed by the simulator.
type EntityID int

// LinkID identifies a link within an articulated object or robot.
type LinkID int

// RobotKind names a robot model for capability lookup.
type RobotKind string

// Contact is a single physics-reported touching event between two
// participants. Contacts are produced once per step, are immutable, and
// are consumed rather than stored.
type Contact struct {
	ObjectA  EntityID
	ObjectB  EntityID
	LinkA    LinkID
	LinkB    LinkID
	Position r3.Vec
}

// Involves reports whether either participant of the contact is the
// given entity.
func (c Contact) Involves(id EntityID) bool {
	return c.ObjectA == id || c.ObjectB == id
}

// InvolvesLink reports whether either participant link of the contact is
// the given link.
func (c Contact) InvolvesLink(id LinkID) bool {
	return c.LinkA == id || c.LinkB == id
}

// Marker is a named attachment point on an articulated object, e.g. a
// drawer handle. Position is the marker's world position at the moment
// the marker list was sampled; callers re-sample per step.
type Marker struct {
	Name     string
	ParentID EntityID
	LinkID   LinkID
	Position r3.Vec
}

// TargetKind discriminates the two graspable target flavours.
type TargetKind int

const (
	// TargetEntity is a free rigid scene object.
	TargetEntity TargetKind = iota
	// TargetMarker is a named attachment point on an articulated object.
	TargetMarker
)

// TargetRef identifies a graspable target: either a scene entity or a
// marker, never both.
type TargetRef struct {
	Kind   TargetKind
	Entity EntityID
	Marker string
}

// EntityTarget builds a TargetRef for a scene entity.
func EntityTarget(id EntityID) TargetRef {
	return TargetRef{Kind: TargetEntity, Entity: id}
}

// MarkerTarget builds a TargetRef for a named marker.
func MarkerTarget(name string) TargetRef {
	return TargetRef{Kind: TargetMarker, Marker: name}
}

func (t TargetRef) String() string {
	if t.Kind == TargetMarker {
		return fmt.Sprintf("marker/%s", t.Marker)
	}
	return fmt.Sprintf("entity/%d", t.Entity)
}

// AttachmentFrame is the rigid constraint recorded at grasp time: the
// target's pose relative to the end-effector or attachment link (KeepT)
// plus the target position in that frame (RelPos). Computed once at
// attach time and held immutable for the life of the attachment. Marker
// attachments carry no frame.
type AttachmentFrame struct {
	KeepT  geom.Mat4
	RelPos r3.Vec
}

// AttachOptions modify an attach request. Force asks the collaborator to
// override its own conflict checks (the engine always passes false).
// OpenGripper asks the robot to open its gripper as part of the snap;
// suction-style grasps leave it closed.
type AttachOptions struct {
	Force       bool
	OpenGripper bool
}

// Simulator is the physics/render collaborator consumed by the grasp
// engine. All methods are synchronous round-trips; Step(0) is a
// pose-only refresh that updates transforms and sensor state without
// integrating dynamics.
type Simulator interface {
	// SceneObjectIDs returns graspable entity ids in stable iteration
	// order. The order defines selector scan order and tie-breaking.
	SceneObjectIDs() []EntityID

	// ScenePositions returns current world positions aligned index-for-
	// index with SceneObjectIDs.
	ScenePositions() []r3.Vec

	// Contacts returns this step's collision contacts.
	Contacts() []Contact

	// Markers returns all markers in stable order with their current
	// world positions.
	Markers() []Marker

	// ObjectTransform returns the world transform of an entity.
	ObjectTransform(id EntityID) (geom.Mat4, error)

	// SetObjectTransform overwrites the world transform of an entity.
	SetObjectTransform(id EntityID, t geom.Mat4) error

	// Step advances the simulation by dt seconds. dt=0 is supported and
	// refreshes poses and sensor buffers without integrating dynamics.
	Step(dt float64) error

	// CameraTransform returns the world transform of a named camera.
	CameraTransform(camera string) (geom.Mat4, error)

	// RenderDepth renders and returns the depth image of a named
	// camera. The call blocks until the buffer is materialised.
	RenderDepth(camera string) (*mat.Dense, error)

	// Attach commits a rigid attachment of the target to the robot.
	// A nil frame is valid for marker targets. The collaborator may
	// reject the request (e.g. target already constrained elsewhere);
	// that rejection is returned as an error, never swallowed.
	Attach(target TargetRef, frame *AttachmentFrame, opts AttachOptions) error

	// Detach releases the current attachment. Releasing with nothing
	// attached is a collaborator-level no-op but the engine never
	// issues it in that state.
	Detach()

	// IsAttached reports whether an attachment currently exists.
	IsAttached() bool
}

// Robot exposes the per-robot kinematic state the grasp engine reads.
// Joint control and kinematic models stay on the collaborator side.
type Robot interface {
	// ID is the robot's own entity id, used to filter self-contacts.
	ID() EntityID

	// Kind names the robot model for capability lookup.
	Kind() RobotKind

	// GripperLinks returns the link ids belonging to the gripper.
	GripperLinks() []LinkID

	// EETransform returns the end-effector world transform.
	EETransform() geom.Mat4

	// AttachmentLinkTransform returns the world transform of the link
	// attachments are constrained to. This can differ from the nominal
	// end-effector frame, e.g. for a suction pad mounted off-centre.
	AttachmentLinkTransform() geom.Mat4

	// OpenGripper commands the gripper open. Used by proximity-style
	// grasps before snapping to a marker.
	OpenGripper()
}

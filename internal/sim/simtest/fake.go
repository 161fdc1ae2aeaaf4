// Package simtest provides in-memory fakes for the sim collaborator
// interfaces. They record every call so tests can assert on ordering
// (e.g. that sink/render/restore happen in sequence) and support
// injectable errors for failure-path coverage. The same fakes back the
// scripted scenarios in cmd/graspsim.
package simtest

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
)

// AttachCall records one Attach invocation.
type AttachCall struct {
	Target sim.TargetRef
	Frame  *sim.AttachmentFrame
	Opts   sim.AttachOptions
}

// Sim is an in-memory sim.Simulator. Zero value is not usable; call New.
type Sim struct {
	ids        []sim.EntityID
	transforms map[sim.EntityID]geom.Mat4

	ContactList []sim.Contact
	MarkerList  []sim.Marker
	Cameras     map[string]geom.Mat4

	// RenderFunc produces depth images from the current scene state.
	// Nil means rendering is unavailable and RenderDepth fails.
	RenderFunc func(camera string) (*mat.Dense, error)

	// Injectable failures.
	StepErr         error
	SetTransformErr error
	AttachErr       error

	// Call records.
	Attached    bool
	AttachCalls []AttachCall
	DetachCalls int
	Steps       []float64
	Ops         []string
}

// New returns an empty fake simulator.
func New() *Sim {
	return &Sim{
		transforms: make(map[sim.EntityID]geom.Mat4),
		Cameras:    make(map[string]geom.Mat4),
	}
}

// AddObject registers a scene entity in scan order with the given world
// transform.
func (f *Sim) AddObject(id sim.EntityID, t geom.Mat4) {
	f.ids = append(f.ids, id)
	f.transforms[id] = t
}

// AddObjectAt registers a scene entity at a world position with identity
// rotation.
func (f *Sim) AddObjectAt(id sim.EntityID, pos r3.Vec) {
	f.AddObject(id, geom.Translate(pos))
}

func (f *Sim) SceneObjectIDs() []sim.EntityID {
	return f.ids
}

func (f *Sim) ScenePositions() []r3.Vec {
	out := make([]r3.Vec, len(f.ids))
	for i, id := range f.ids {
		out[i] = f.transforms[id].Translation()
	}
	return out
}

func (f *Sim) Contacts() []sim.Contact {
	return f.ContactList
}

func (f *Sim) Markers() []sim.Marker {
	return f.MarkerList
}

func (f *Sim) ObjectTransform(id sim.EntityID) (geom.Mat4, error) {
	t, ok := f.transforms[id]
	if !ok {
		return geom.Mat4{}, fmt.Errorf("unknown entity %d", id)
	}
	return t, nil
}

func (f *Sim) SetObjectTransform(id sim.EntityID, t geom.Mat4) error {
	if f.SetTransformErr != nil {
		return f.SetTransformErr
	}
	if _, ok := f.transforms[id]; !ok {
		return fmt.Errorf("unknown entity %d", id)
	}
	f.transforms[id] = t
	f.Ops = append(f.Ops, fmt.Sprintf("set_transform:%d", id))
	return nil
}

func (f *Sim) Step(dt float64) error {
	if f.StepErr != nil {
		return f.StepErr
	}
	f.Steps = append(f.Steps, dt)
	f.Ops = append(f.Ops, fmt.Sprintf("step:%g", dt))
	return nil
}

func (f *Sim) CameraTransform(camera string) (geom.Mat4, error) {
	t, ok := f.Cameras[camera]
	if !ok {
		return geom.Mat4{}, fmt.Errorf("unknown camera %q", camera)
	}
	return t, nil
}

func (f *Sim) RenderDepth(camera string) (*mat.Dense, error) {
	f.Ops = append(f.Ops, "render:"+camera)
	if f.RenderFunc == nil {
		return nil, fmt.Errorf("no renderer configured for camera %q", camera)
	}
	return f.RenderFunc(camera)
}

func (f *Sim) Attach(target sim.TargetRef, frame *sim.AttachmentFrame, opts sim.AttachOptions) error {
	f.AttachCalls = append(f.AttachCalls, AttachCall{Target: target, Frame: frame, Opts: opts})
	f.Ops = append(f.Ops, "attach:"+target.String())
	if f.AttachErr != nil {
		return f.AttachErr
	}
	f.Attached = true
	return nil
}

func (f *Sim) Detach() {
	f.DetachCalls++
	f.Ops = append(f.Ops, "detach")
	f.Attached = false
}

func (f *Sim) IsAttached() bool {
	return f.Attached
}

// Robot is an in-memory sim.Robot.
type Robot struct {
	RobotID   sim.EntityID
	RobotKind sim.RobotKind
	Links     []sim.LinkID
	EE        geom.Mat4
	LinkT     geom.Mat4
	OpenCalls int
}

func (r *Robot) ID() sim.EntityID                   { return r.RobotID }
func (r *Robot) Kind() sim.RobotKind                { return r.RobotKind }
func (r *Robot) GripperLinks() []sim.LinkID         { return r.Links }
func (r *Robot) EETransform() geom.Mat4             { return r.EE }
func (r *Robot) AttachmentLinkTransform() geom.Mat4 { return r.LinkT }
func (r *Robot) OpenGripper()                       { r.OpenCalls++ }

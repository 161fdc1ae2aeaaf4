package grasp

import (
	"fmt"

	"github.com/helix-robotics/graspcore/internal/monitoring"
	"github.com/helix-robotics/graspcore/internal/sim"
)

// EventSink receives attach/release notifications from the manager.
// Implementations must be fast and non-blocking; a nil sink is valid and
// disables eventing.
type EventSink interface {
	// GraspCommitted fires after an attachment is committed.
	GraspCommitted(target TargetRef, mode Mode, distance float64)
	// Released fires after an attachment is released.
	Released(target TargetRef)
}

// Manager owns the single current attachment and drives attach/detach
// transitions from scalar grip commands. At most one attachment exists
// at any time; that is the core invariant, enforced here rather than in
// the collaborator.
type Manager struct {
	sim      sim.Simulator
	robot    sim.Robot
	selector Selector
	events   EventSink

	attached bool
	target   TargetRef
	frame    *AttachmentFrame
}

// NewManager builds a grasp manager in the Unattached state. events may
// be nil.
func NewManager(s sim.Simulator, r sim.Robot, selector Selector, events EventSink) *Manager {
	return &Manager{sim: s, robot: r, selector: selector, events: events}
}

// ApplyGripCommand processes one step's grip command:
//
//	nil       -> no-op in either state
//	cmd >= 0  -> grasp if unattached (no-op when nothing qualifies or
//	             already attached)
//	cmd < 0   -> release if attached (no-op, with no collaborator call,
//	             when unattached)
//
// Selector and collaborator failures abort the current step's grasp
// evaluation and propagate; there are no retries.
func (m *Manager) ApplyGripCommand(cmd *float64) error {
	if cmd == nil {
		return nil
	}
	if *cmd >= 0 {
		if m.attached {
			return nil
		}
		return m.grasp()
	}
	if m.attached {
		m.release()
	}
	return nil
}

func (m *Manager) grasp() error {
	monitoring.GraspAttempts.Add(1)

	plan, ok, err := m.selector.Select()
	if err != nil {
		monitoring.SelectorFailures.Add(1)
		return fmt.Errorf("%s selection: %w", m.selector.Mode(), err)
	}
	if !ok {
		monitoring.NoCandidate.Add(1)
		return nil
	}
	return m.commit(plan)
}

func (m *Manager) commit(plan Plan) error {
	if m.attached {
		return fmt.Errorf("%w: already holding %s", ErrAttachConflict, m.target)
	}

	opts := sim.AttachOptions{Force: false}
	if plan.Target.Kind == sim.TargetMarker {
		// Marker snaps carry no frame; the proximity-style open-gripper
		// happens on the robot before the snap.
		if plan.OpenGripper {
			m.robot.OpenGripper()
		}
	} else {
		opts.OpenGripper = plan.OpenGripper
	}

	if err := m.sim.Attach(plan.Target, plan.Frame, opts); err != nil {
		return fmt.Errorf("attach %s: %w", plan.Target, err)
	}

	m.attached = true
	m.target = plan.Target
	m.frame = plan.Frame
	monitoring.GraspCommits.Add(1)
	monitoring.Logf("grasp: attached %s via %s (dist %.3fm)", plan.Target, m.selector.Mode(), plan.Distance)
	if m.events != nil {
		m.events.GraspCommitted(plan.Target, m.selector.Mode(), plan.Distance)
	}
	return nil
}

func (m *Manager) release() {
	released := m.target
	m.sim.Detach()
	m.attached = false
	m.target = TargetRef{}
	m.frame = nil
	monitoring.Releases.Add(1)
	monitoring.Logf("grasp: released %s", released)
	if m.events != nil {
		m.events.Released(released)
	}
}

// IsAttached reports the collaborator's attachment state. Exposed as a
// passthrough for the surrounding control loop.
func (m *Manager) IsAttached() bool {
	return m.sim.IsAttached()
}

// Holding returns the manager's own record of the current attachment.
func (m *Manager) Holding() (TargetRef, bool) {
	return m.target, m.attached
}

// Frame returns the attachment frame recorded at grasp time, or nil when
// unattached or holding a marker.
func (m *Manager) Frame() *AttachmentFrame {
	return m.frame
}

// Reset returns the manager to Unattached without touching the
// collaborator. Called at episode reset, after the owning episode has
// already torn down its physics state.
func (m *Manager) Reset() {
	m.attached = false
	m.target = TargetRef{}
	m.frame = nil
}

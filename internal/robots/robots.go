// Package robots is the capability table for robot models. The grasp
// engine never branches on concrete robot types; anything model-specific
// (camera names, default gripper links) is looked up here by kind and
// purpose. Robot-model collaborators register their own kinds at startup.
package robots

import (
	"errors"
	"fmt"

	"github.com/helix-robotics/graspcore/internal/sim"
)

// ErrUnsupportedRobot is returned when a robot kind lacks a capability
// required by the selected acquisition mode. Callers must treat this as
// fatal for that mode rather than fall back to a default.
var ErrUnsupportedRobot = errors.New("robot kind does not support required capability")

// Purpose names a camera role looked up per robot kind.
type Purpose string

const (
	// PurposeGraspDepth is the depth camera used for visibility masking.
	PurposeGraspDepth Purpose = "grasp_depth"
	// PurposeGraspPose is the camera whose world position anchors the
	// gaze distance gate.
	PurposeGraspPose Purpose = "grasp_pose"
)

// Builtin robot kinds. External robot models register additional kinds
// via Register.
const (
	KindSpot    sim.RobotKind = "spot"
	KindStretch sim.RobotKind = "stretch"
)

// Capabilities describes what a robot model offers to the grasp engine.
type Capabilities struct {
	// Cameras maps purposes to simulator camera names.
	Cameras map[Purpose]string
	// GripperLinks are the default gripper link ids for contact
	// filtering when the robot instance does not override them.
	GripperLinks []sim.LinkID
}

var registry = map[sim.RobotKind]Capabilities{
	KindSpot: {
		Cameras: map[Purpose]string{
			PurposeGraspDepth: "articulated_agent_arm_depth",
			PurposeGraspPose:  "articulated_agent_arm_rgb",
		},
	},
	KindStretch: {
		Cameras: map[Purpose]string{
			PurposeGraspDepth: "head_depth",
			PurposeGraspPose:  "head_rgb",
		},
	},
}

// Register adds or replaces the capability entry for a robot kind.
// Intended for robot-model collaborators outside this module; built-in
// kinds may be overridden.
func Register(kind sim.RobotKind, caps Capabilities) {
	registry[kind] = caps
}

// Lookup returns the capabilities registered for a kind.
func Lookup(kind sim.RobotKind) (Capabilities, bool) {
	caps, ok := registry[kind]
	return caps, ok
}

// CameraNameFor resolves the simulator camera name serving the given
// purpose on the given robot kind. Missing kind or purpose yields
// ErrUnsupportedRobot.
func CameraNameFor(kind sim.RobotKind, purpose Purpose) (string, error) {
	caps, ok := registry[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrUnsupportedRobot, kind)
	}
	name, ok := caps.Cameras[purpose]
	if !ok || name == "" {
		return "", fmt.Errorf("%w: kind %q has no %s camera", ErrUnsupportedRobot, kind, purpose)
	}
	return name, nil
}

package grasp

import (
	"errors"

	"github.com/helix-robotics/graspcore/internal/robots"
)

// ErrAttachConflict reports an attach request observed while an
// attachment already exists. The state machine invariant makes this
// unreachable through ApplyGripCommand; seeing it indicates a caller
// bug, so it is raised rather than silently overriding the attachment.
var ErrAttachConflict = errors.New("attach requested while already attached")

// ErrUnsupportedRobot is re-exported from the capability table: the
// robot kind lacks a camera or gripper capability required by the
// selected acquisition mode. Fatal to that mode, never defaulted.
var ErrUnsupportedRobot = robots.ErrUnsupportedRobot

package grasp

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/helix-robotics/graspcore/internal/config"
	"github.com/helix-robotics/graspcore/internal/grasp/geom"
	"github.com/helix-robotics/graspcore/internal/sim"
	"github.com/helix-robotics/graspcore/internal/units"
)

// ProximityConfigFromTuning builds a ProximityConfig from a loaded
// TuningConfig.
func ProximityConfigFromTuning(cfg *config.TuningConfig) ProximityConfig {
	return ProximityConfig{
		ThresholdDist: cfg.GetGraspThreshDist(),
		SnapOffset:    cfg.GetEESnapOffset(),
	}
}

// GazeConfigFromTuning builds a GazeConfig from a loaded TuningConfig.
func GazeConfigFromTuning(cfg *config.TuningConfig) GazeConfig {
	axis := cfg.GetGazeCenterConeVector()
	return GazeConfig{
		MinDist:      cfg.GetGazeMinDist(),
		MaxDist:      cfg.GetGazeMaxDist(),
		SnapOffset:   cfg.GetEESnapOffset(),
		SinkY:        cfg.GetSinkY(),
		BlurKernel:   cfg.GetMaskBlurKernel(),
		ConeAngleRad: units.DegToRad(cfg.GetGazeCenterConeAngleDeg()),
		ConeAxis:     geom.Normalize(r3.Vec{X: axis[0], Y: axis[1], Z: axis[2]}),
	}
}

// SelectorFromTuning constructs the selector named by the tuning mode.
func SelectorFromTuning(cfg *config.TuningConfig, s sim.Simulator, r sim.Robot) (Selector, error) {
	switch Mode(cfg.GetMode()) {
	case ModeProximity:
		return NewProximitySelector(s, r, ProximityConfigFromTuning(cfg)), nil
	case ModeSuction:
		return NewSuctionSelector(s, r), nil
	case ModeGaze:
		return NewGazeSelector(s, r, GazeConfigFromTuning(cfg))
	default:
		return nil, fmt.Errorf("unknown grasp mode %q", cfg.GetMode())
	}
}

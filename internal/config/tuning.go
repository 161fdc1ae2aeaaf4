package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the grasp engine tuning parameters. Fields are
// pointers so a partial JSON file only overrides what it names; the
// Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Selector mode: "proximity", "suction" or "gaze".
	Mode *string `json:"mode,omitempty"`

	// Proximity selector params
	GraspThreshDist *float64 `json:"grasp_thresh_dist,omitempty"`

	// Shared attachment frame params
	EESnapOffset *float64 `json:"ee_snap_offset,omitempty"`

	// Gaze selector params
	GazeMinDist            *float64    `json:"gaze_min_dist,omitempty"`
	GazeMaxDist            *float64    `json:"gaze_max_dist,omitempty"`
	SinkY                  *float64    `json:"sink_y,omitempty"`
	MaskBlurKernel         *int        `json:"mask_blur_kernel,omitempty"`
	GazeCenterConeAngleDeg *float64    `json:"gaze_center_cone_angle_deg,omitempty"`
	GazeCenterConeVector   *[3]float64 `json:"gaze_center_cone_vector,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to have a .json extension and to be under the max file size.
// Fields omitted from the JSON retain their default values, so partial
// configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and common parent
// directories. Panics if the file cannot be loaded; intended for test
// setup and binaries that have already validated config availability.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/grasp/vision/ etc.
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.Mode != nil {
		switch *c.Mode {
		case "proximity", "suction", "gaze":
		default:
			return fmt.Errorf("mode must be proximity, suction or gaze, got %q", *c.Mode)
		}
	}

	if c.GraspThreshDist != nil && *c.GraspThreshDist <= 0 {
		return fmt.Errorf("grasp_thresh_dist must be positive, got %f", *c.GraspThreshDist)
	}

	if c.GazeMinDist != nil && *c.GazeMinDist < 0 {
		return fmt.Errorf("gaze_min_dist must be non-negative, got %f", *c.GazeMinDist)
	}

	min, max := c.GetGazeMinDist(), c.GetGazeMaxDist()
	if min > max {
		return fmt.Errorf("gaze_min_dist %f exceeds gaze_max_dist %f", min, max)
	}

	if c.MaskBlurKernel != nil {
		k := *c.MaskBlurKernel
		if k <= 0 || k%2 == 0 {
			return fmt.Errorf("mask_blur_kernel must be a positive odd integer, got %d", k)
		}
	}

	if c.GazeCenterConeAngleDeg != nil {
		a := *c.GazeCenterConeAngleDeg
		if a < 0 || a > 180 {
			return fmt.Errorf("gaze_center_cone_angle_deg must be in [0, 180], got %f", a)
		}
	}

	return nil
}

// GetMode returns the selector mode or the default.
func (c *TuningConfig) GetMode() string {
	if c.Mode == nil {
		return "proximity" // default
	}
	return *c.Mode
}

// GetGraspThreshDist returns the grasp_thresh_dist value or the default.
func (c *TuningConfig) GetGraspThreshDist() float64 {
	if c.GraspThreshDist == nil {
		return 0.15 // default
	}
	return *c.GraspThreshDist
}

// GetEESnapOffset returns the ee_snap_offset value or the default.
func (c *TuningConfig) GetEESnapOffset() float64 {
	if c.EESnapOffset == nil {
		return 0.1 // default
	}
	return *c.EESnapOffset
}

// GetGazeMinDist returns the gaze_min_dist value or the default.
func (c *TuningConfig) GetGazeMinDist() float64 {
	if c.GazeMinDist == nil {
		return 0.1 // default
	}
	return *c.GazeMinDist
}

// GetGazeMaxDist returns the gaze_max_dist value or the default.
func (c *TuningConfig) GetGazeMaxDist() float64 {
	if c.GazeMaxDist == nil {
		return 3.0 // default
	}
	return *c.GazeMaxDist
}

// GetSinkY returns the sink_y value or the default. The sink must be far
// enough outside the scene that no other geometry can reach it.
func (c *TuningConfig) GetSinkY() float64 {
	if c.SinkY == nil {
		return -15.0 // default
	}
	return *c.SinkY
}

// GetMaskBlurKernel returns the mask_blur_kernel value or the default.
func (c *TuningConfig) GetMaskBlurKernel() int {
	if c.MaskBlurKernel == nil {
		return 5 // default
	}
	return *c.MaskBlurKernel
}

// GetGazeCenterConeAngleDeg returns the cone angle or the default.
// Zero disables the cone pre-gate; the image-mask centring test is the
// active acceptance criterion either way.
func (c *TuningConfig) GetGazeCenterConeAngleDeg() float64 {
	if c.GazeCenterConeAngleDeg == nil {
		return 0 // default: disabled
	}
	return *c.GazeCenterConeAngleDeg
}

// GetGazeCenterConeVector returns the camera-frame cone axis or the default.
func (c *TuningConfig) GetGazeCenterConeVector() [3]float64 {
	if c.GazeCenterConeVector == nil {
		return [3]float64{0, 0, -1} // default: camera forward
	}
	return *c.GazeCenterConeVector
}

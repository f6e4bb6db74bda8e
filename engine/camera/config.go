package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default tuning values for the orbit camera.
const (
	DefaultMinDistance                 float32 = 1e-2
	DefaultMaxDistance                 float32 = 10.0
	DefaultMouseSensitivity            float32 = 3e-2
	DefaultZoomSpeed                   float32 = 0.1
	DefaultClearance                   float32 = 0.01
	DefaultApproxZeroEpsilon           float32 = 1e-5
	DefaultCorrectionEpsilon           float32 = 1e-3
	DefaultTranslationSmoothingFurther float32 = 50
	DefaultTranslationSmoothingCloser  float32 = 100
	DefaultRotationSmoothing           float32 = 45
)

// Config holds every tunable constant of the orbit camera. All values are plain data so a
// host can load them from a file (see engine/config) and apply them without code changes.
type Config struct {
	// MinDistance and MaxDistance bound the desired eye-to-target distance.
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`

	// MouseSensitivity scales movement input into yaw/pitch radians.
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`

	// ZoomSpeed scales zoom input into distance units.
	ZoomSpeed float32 `yaml:"zoom_speed"`

	// Clearance is subtracted from a raycast hit distance so the eye stays off the surface.
	Clearance float32 `yaml:"clearance"`

	// ApproxZeroEpsilon is the per-component tolerance for "approximately zero" vectors.
	ApproxZeroEpsilon float32 `yaml:"approx_zero_epsilon"`

	// CorrectionEpsilon is the squared-distance slack used to classify a line-of-sight
	// correction as Closer.
	CorrectionEpsilon float32 `yaml:"correction_epsilon"`

	// TranslationSmoothingFurther is the translation smoothing rate (per second) used when the
	// eye settled at or beyond its desired distance.
	TranslationSmoothingFurther float32 `yaml:"translation_smoothing_further"`

	// TranslationSmoothingCloser is the translation smoothing rate (per second) used when an
	// obstruction pulled the eye in.
	TranslationSmoothingCloser float32 `yaml:"translation_smoothing_closer"`

	// RotationSmoothing is the rotation smoothing rate (per second).
	RotationSmoothing float32 `yaml:"rotation_smoothing"`

	// Pitch bounds the forward vector's elevation for the default pitch policy.
	Pitch PitchLimits `yaml:"pitch"`

	// FallbackDirection is the eye direction used when the eye sits exactly on the target.
	FallbackDirection mgl32.Vec3 `yaml:"fallback_direction"`
}

// DefaultConfig returns the stock tuning for a third-person orbit camera.
//
// Returns:
//   - Config: the default configuration
func DefaultConfig() Config {
	return Config{
		MinDistance:                 DefaultMinDistance,
		MaxDistance:                 DefaultMaxDistance,
		MouseSensitivity:            DefaultMouseSensitivity,
		ZoomSpeed:                   DefaultZoomSpeed,
		Clearance:                   DefaultClearance,
		ApproxZeroEpsilon:           DefaultApproxZeroEpsilon,
		CorrectionEpsilon:           DefaultCorrectionEpsilon,
		TranslationSmoothingFurther: DefaultTranslationSmoothingFurther,
		TranslationSmoothingCloser:  DefaultTranslationSmoothingCloser,
		RotationSmoothing:           DefaultRotationSmoothing,
		Pitch:                       DefaultPitchLimits(),
		FallbackDirection:           common.AxisZ,
	}
}

// Validate checks the configuration for values the controller cannot work with.
//
// Returns:
//   - error: a description of the first invalid field, or nil
func (c Config) Validate() error {
	finite := []struct {
		name string
		v    float32
	}{
		{"min_distance", c.MinDistance},
		{"max_distance", c.MaxDistance},
		{"mouse_sensitivity", c.MouseSensitivity},
		{"zoom_speed", c.ZoomSpeed},
		{"clearance", c.Clearance},
		{"approx_zero_epsilon", c.ApproxZeroEpsilon},
		{"correction_epsilon", c.CorrectionEpsilon},
		{"translation_smoothing_further", c.TranslationSmoothingFurther},
		{"translation_smoothing_closer", c.TranslationSmoothingCloser},
		{"rotation_smoothing", c.RotationSmoothing},
	}
	for _, f := range finite {
		if !common.IsFinite(f.v) {
			return fmt.Errorf("camera config: %s is not finite", f.name)
		}
	}

	switch {
	case c.MinDistance < 0:
		return fmt.Errorf("camera config: min_distance %v is negative", c.MinDistance)
	case c.MinDistance > c.MaxDistance:
		return fmt.Errorf("camera config: min_distance %v exceeds max_distance %v", c.MinDistance, c.MaxDistance)
	case c.Clearance < 0:
		return fmt.Errorf("camera config: clearance %v is negative", c.Clearance)
	case c.ApproxZeroEpsilon <= 0:
		return fmt.Errorf("camera config: approx_zero_epsilon must be positive")
	case c.CorrectionEpsilon < 0:
		return fmt.Errorf("camera config: correction_epsilon %v is negative", c.CorrectionEpsilon)
	case c.TranslationSmoothingFurther <= 0, c.TranslationSmoothingCloser <= 0, c.RotationSmoothing <= 0:
		return fmt.Errorf("camera config: smoothing rates must be positive")
	}

	if err := c.Pitch.Validate(); err != nil {
		return fmt.Errorf("camera config: %w", err)
	}
	if _, ok := common.TryNormalize(c.FallbackDirection); !ok {
		return fmt.Errorf("camera config: fallback_direction must be a non-zero vector")
	}
	return nil
}

// clampDistance bounds d to the configured distance range. NaN collapses to the midpoint.
func (c Config) clampDistance(d float32) float32 {
	if math.IsNaN(float64(d)) {
		return c.MaxDistance / 2
	}
	return common.Clamp(d, c.MinDistance, c.MaxDistance)
}

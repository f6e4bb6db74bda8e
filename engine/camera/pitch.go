package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

// PitchPolicy bounds a candidate pitch delta so the camera never flips over the poles.
// Positive angles tilt the forward vector toward up.
type PitchPolicy interface {
	// ClampPitch returns a pitch delta that keeps the resulting forward vector within the
	// policy's elevation range.
	//
	// Parameters:
	//   - up: the world up axis
	//   - forward: the camera's current forward vector
	//   - angle: the requested pitch delta in radians
	//
	// Returns:
	//   - float32: the permitted pitch delta in radians
	ClampPitch(up, forward mgl32.Vec3, angle float32) float32
}

// PitchLimits is the default PitchPolicy. It keeps the angle between forward and up inside
// [MinAngleFromUp, π - MinAngleFromDown]. A forward vector already outside that range may
// only move back toward it.
type PitchLimits struct {
	// MinAngleFromUp is the closest the forward vector may get to straight up, in radians.
	MinAngleFromUp float32 `yaml:"min_angle_from_up"`

	// MinAngleFromDown is the closest the forward vector may get to straight down, in radians.
	MinAngleFromDown float32 `yaml:"min_angle_from_down"`
}

var _ PitchPolicy = PitchLimits{}

// DefaultPitchLimits keeps forward at least τ/7 away from straight up and τ/10 away from
// straight down.
//
// Returns:
//   - PitchLimits: the default limits
func DefaultPitchLimits() PitchLimits {
	return PitchLimits{
		MinAngleFromUp:   2 * math.Pi / 7,
		MinAngleFromDown: 2 * math.Pi / 10,
	}
}

// Validate reports whether the limits leave a non-empty elevation range.
//
// Returns:
//   - error: nil if the limits are usable
func (l PitchLimits) Validate() error {
	if !common.IsFinite(l.MinAngleFromUp) || !common.IsFinite(l.MinAngleFromDown) {
		return fmt.Errorf("pitch limits must be finite")
	}
	if l.MinAngleFromUp < 0 || l.MinAngleFromDown < 0 {
		return fmt.Errorf("pitch limits must not be negative")
	}
	if l.MinAngleFromUp+l.MinAngleFromDown >= math.Pi {
		return fmt.Errorf("pitch limits %v + %v leave no elevation range", l.MinAngleFromUp, l.MinAngleFromDown)
	}
	return nil
}

// ClampPitch implements PitchPolicy.
func (l PitchLimits) ClampPitch(up, forward mgl32.Vec3, angle float32) float32 {
	if !common.IsFinite(angle) {
		return 0
	}
	if _, ok := common.TryNormalize(up); !ok {
		return 0
	}
	if _, ok := common.TryNormalize(forward); !ok {
		return 0
	}

	lo := l.MinAngleFromUp
	hi := math.Pi - l.MinAngleFromDown

	current := common.AngleBetween(forward, up)
	next := current - angle
	if next < lo {
		next = max(next, min(current, lo))
	}
	if next > hi {
		next = min(next, max(current, hi))
	}
	return current - next
}

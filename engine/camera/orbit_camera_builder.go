package camera

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCameraOption is a functional option for configuring an OrbitCamera.
type OrbitCameraOption func(*orbitCameraImpl)

// WithConfig replaces the whole configuration. Options applied after it still take effect.
//
// Parameters:
//   - cfg: the configuration to use
//
// Returns:
//   - OrbitCameraOption: functional option to set the configuration
func WithConfig(cfg Config) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg = cfg
	}
}

// WithDistanceBounds sets the minimum and maximum desired distance.
//
// Parameters:
//   - min: minimum eye-to-target distance
//   - max: maximum eye-to-target distance
//
// Returns:
//   - OrbitCameraOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.MinDistance = min
		oc.cfg.MaxDistance = max
	}
}

// WithDistance sets the initial desired distance. It is clamped to the distance bounds
// after all options are applied.
//
// Parameters:
//   - distance: initial eye-to-target distance
//
// Returns:
//   - OrbitCameraOption: functional option to set the distance
func WithDistance(distance float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.distance = distance
	}
}

// WithMouseSensitivity sets the yaw/pitch input multiplier.
//
// Parameters:
//   - sensitivity: radians per input unit
//
// Returns:
//   - OrbitCameraOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.MouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the zoom input multiplier.
//
// Parameters:
//   - speed: distance units per zoom input unit
//
// Returns:
//   - OrbitCameraOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.ZoomSpeed = speed
	}
}

// WithClearance sets the gap kept between the eye and a raycast hit.
//
// Parameters:
//   - clearance: distance subtracted from hit distances
//
// Returns:
//   - OrbitCameraOption: functional option to set the clearance
func WithClearance(clearance float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.Clearance = clearance
	}
}

// WithSmoothing sets the translation and rotation smoothing rates.
//
// Parameters:
//   - further: translation rate when the eye is not pulled in
//   - closer: translation rate when an obstruction pulled the eye in
//   - rotation: rotation rate
//
// Returns:
//   - OrbitCameraOption: functional option to set smoothing rates
func WithSmoothing(further, closer, rotation float32) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.TranslationSmoothingFurther = further
		oc.cfg.TranslationSmoothingCloser = closer
		oc.cfg.RotationSmoothing = rotation
	}
}

// WithPitchLimits sets the elevation bounds of the default pitch policy.
//
// Parameters:
//   - limits: the pitch limits
//
// Returns:
//   - OrbitCameraOption: functional option to set pitch limits
func WithPitchLimits(limits PitchLimits) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.cfg.Pitch = limits
	}
}

// WithPitchPolicy replaces the pitch clamp policy, e.g. with a ScriptPitchPolicy.
//
// Parameters:
//   - policy: the policy to use
//
// Returns:
//   - OrbitCameraOption: functional option to set the pitch policy
func WithPitchPolicy(policy PitchPolicy) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.pitch = policy
	}
}

// WithUp sets the world up axis.
//
// Parameters:
//   - up: the up axis (not renormalized)
//
// Returns:
//   - OrbitCameraOption: functional option to set the up axis
func WithUp(up mgl32.Vec3) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.up = up
	}
}

// WithTarget sets the initial orbit target. The previous target is set to the same point so
// the first update sees no target movement.
//
// Parameters:
//   - target: world-space target position
//
// Returns:
//   - OrbitCameraOption: functional option to set the target
func WithTarget(target mgl32.Vec3) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.target = target
		oc.lastTarget = target
	}
}

// WithEye sets the initial eye pose and seeds the previous eye pose with it.
//
// Parameters:
//   - eye: initial eye transform
//
// Returns:
//   - OrbitCameraOption: functional option to set the eye
func WithEye(eye common.Transform) OrbitCameraOption {
	return func(oc *orbitCameraImpl) {
		oc.eye = eye
		oc.lastEye = eye
	}
}

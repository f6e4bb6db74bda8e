package camera

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// RayCaster is the single collision query the orbit camera needs from a physics world.
type RayCaster interface {
	// CastRay casts a solid ray against static, non-sensor geometry.
	//
	// Parameters:
	//   - origin: world-space ray origin
	//   - direction: unit ray direction
	//   - maxDistance: maximum ray length
	//
	// Returns:
	//   - toi: distance along the ray to the nearest hit
	//   - hit: false if nothing was hit within maxDistance
	CastRay(origin, direction mgl32.Vec3, maxDistance float32) (toi float32, hit bool)
}

// LineOfSightCorrection tags how the line-of-sight stage moved the eye relative to where
// the orbit stages wanted it.
type LineOfSightCorrection int

const (
	// CorrectionFurther means the eye settled at or beyond its desired distance, including
	// the unobstructed case.
	CorrectionFurther LineOfSightCorrection = iota

	// CorrectionCloser means an obstruction pulled the eye toward the target.
	CorrectionCloser
)

func (c LineOfSightCorrection) String() string {
	switch c {
	case CorrectionCloser:
		return "closer"
	case CorrectionFurther:
		return "further"
	default:
		return "unknown"
	}
}

// LineOfSightResult is the corrected eye location and how it was reached.
type LineOfSightResult struct {
	Location   mgl32.Vec3
	Correction LineOfSightCorrection
}

// State is a serializable snapshot of everything an orbit camera persists across frames.
// Hosts may store it as save data and hand it back to Restore.
type State struct {
	Eye             common.Transform `yaml:"eye"`
	Target          mgl32.Vec3       `yaml:"target"`
	SecondaryTarget *mgl32.Vec3      `yaml:"secondary_target,omitempty"`
	Up              mgl32.Vec3       `yaml:"up"`
	Distance        float32          `yaml:"distance"`
	LastEye         common.Transform `yaml:"last_eye"`
	LastTarget      mgl32.Vec3       `yaml:"last_target"`
}

// OrbitCamera is a collision-aware third-person camera that orbits a target.
// Each frame UpdateTransform runs, in order: follow the target, align with the secondary
// target, apply orbit input, apply zoom, keep line of sight, then smooth the rendered
// transform toward the result.
//
// An OrbitCamera is owned by a single camera and is not safe for concurrent use.
type OrbitCamera interface {
	// Eye returns the logical (unsmoothed) camera pose.
	//
	// Returns:
	//   - common.Transform: the eye transform
	Eye() common.Transform

	// Forward returns the eye's forward direction.
	//
	// Returns:
	//   - mgl32.Vec3: unit forward vector
	Forward() mgl32.Vec3

	// Target returns the point the camera orbits.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the point the camera orbits. Typically called every frame with the
	// followed entity's position before UpdateTransform.
	//
	// Parameters:
	//   - target: world-space target position
	SetTarget(target mgl32.Vec3)

	// SecondaryTarget returns the optional point of interest the camera biases toward.
	//
	// Returns:
	//   - mgl32.Vec3: the secondary target
	//   - bool: false if no secondary target is set
	SecondaryTarget() (mgl32.Vec3, bool)

	// SetSecondaryTarget enables horizontal alignment with a second point of interest.
	// While set, player yaw input is ignored.
	//
	// Parameters:
	//   - target: world-space secondary target position
	SetSecondaryTarget(target mgl32.Vec3)

	// ClearSecondaryTarget disables secondary alignment.
	ClearSecondaryTarget()

	// Up returns the world up axis used for yaw and horizontal projection.
	//
	// Returns:
	//   - mgl32.Vec3: the up axis
	Up() mgl32.Vec3

	// SetUp sets the world up axis. The value is used as given, it is not renormalized.
	//
	// Parameters:
	//   - up: the up axis
	SetUp(up mgl32.Vec3)

	// Distance returns the desired eye-to-target distance.
	//
	// Returns:
	//   - float32: the desired distance
	Distance() float32

	// SetDistance sets the desired eye-to-target distance, clamped to the configured bounds.
	//
	// Parameters:
	//   - distance: the new desired distance
	SetDistance(distance float32)

	// Config returns the camera's active configuration.
	//
	// Returns:
	//   - Config: the configuration
	Config() Config

	// ApplyConfig validates and installs a new configuration, re-clamping the distance.
	// The pitch policy is replaced only if it is the built-in PitchLimits.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: validation error; the old configuration is kept on failure
	ApplyConfig(cfg Config) error

	// InitTransform seeds the previous eye pose from the rendered transform. Call it on
	// spawn or target switch so the first update does not snap.
	//
	// Parameters:
	//   - rendered: the currently rendered camera transform
	InitTransform(rendered common.Transform)

	// UpdateTransform advances the camera by one frame and returns the new rendered transform.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	//   - actions: this frame's camera input
	//   - caster: static collision query, nil for no collision
	//   - rendered: the rendered transform from the previous frame
	//
	// Returns:
	//   - common.Transform: the smoothed transform to render this frame
	UpdateTransform(dt float32, actions input.CameraActions, caster RayCaster, rendered common.Transform) common.Transform

	// KeepLineOfSight computes where the eye must sit to keep an unobstructed view of the
	// target, without mutating the camera.
	//
	// Parameters:
	//   - caster: static collision query, nil for no collision
	//
	// Returns:
	//   - LineOfSightResult: corrected location and its classification
	KeepLineOfSight(caster RayCaster) LineOfSightResult

	// Snapshot captures the persistent camera state.
	//
	// Returns:
	//   - State: the snapshot
	Snapshot() State

	// Restore replaces the persistent camera state with a snapshot. The distance is clamped
	// to the configured bounds.
	//
	// Parameters:
	//   - s: the snapshot to restore
	Restore(s State)
}

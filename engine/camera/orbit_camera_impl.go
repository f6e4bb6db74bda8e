package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// orbitCameraImpl is the single implementation of OrbitCamera.
// eye/lastEye and target/lastTarget form a double buffer: the last* values are written
// only when a frame commits (placeEyeInValidPosition), on InitTransform, and on Restore.
type orbitCameraImpl struct {
	eye             common.Transform
	target          mgl32.Vec3
	secondaryTarget mgl32.Vec3
	hasSecondary    bool
	up              mgl32.Vec3
	distance        float32

	lastEye    common.Transform
	lastTarget mgl32.Vec3

	cfg   Config
	pitch PitchPolicy
}

// Compile-time interface compliance check
var _ OrbitCamera = &orbitCameraImpl{}

// NewOrbitCamera creates a new orbit camera with default tuning, +Y up, and the desired
// distance halfway to the maximum.
//
// Panics if the resulting configuration is invalid (e.g. MinDistance > MaxDistance); that is
// a construction-time programming error, not a runtime condition.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - OrbitCamera: the newly created camera
func NewOrbitCamera(options ...OrbitCameraOption) OrbitCamera {
	oc := &orbitCameraImpl{
		eye:     common.IdentityTransform(),
		lastEye: common.IdentityTransform(),
		up:      common.AxisY,
		cfg:     DefaultConfig(),
	}

	for _, option := range options {
		option(oc)
	}

	if err := oc.cfg.Validate(); err != nil {
		panic("camera: NewOrbitCamera: " + err.Error())
	}
	if oc.pitch == nil {
		oc.pitch = oc.cfg.Pitch
	}
	if oc.distance == 0 {
		oc.distance = oc.cfg.MaxDistance / 2
	}
	oc.distance = oc.cfg.clampDistance(oc.distance)
	return oc
}

func (oc *orbitCameraImpl) Eye() common.Transform {
	return oc.eye
}

func (oc *orbitCameraImpl) Forward() mgl32.Vec3 {
	return oc.eye.Forward()
}

func (oc *orbitCameraImpl) Target() mgl32.Vec3 {
	return oc.target
}

func (oc *orbitCameraImpl) SetTarget(target mgl32.Vec3) {
	oc.target = target
}

func (oc *orbitCameraImpl) SecondaryTarget() (mgl32.Vec3, bool) {
	return oc.secondaryTarget, oc.hasSecondary
}

func (oc *orbitCameraImpl) SetSecondaryTarget(target mgl32.Vec3) {
	oc.secondaryTarget = target
	oc.hasSecondary = true
}

func (oc *orbitCameraImpl) ClearSecondaryTarget() {
	oc.secondaryTarget = mgl32.Vec3{}
	oc.hasSecondary = false
}

func (oc *orbitCameraImpl) Up() mgl32.Vec3 {
	return oc.up
}

func (oc *orbitCameraImpl) SetUp(up mgl32.Vec3) {
	oc.up = up
}

func (oc *orbitCameraImpl) Distance() float32 {
	return oc.distance
}

func (oc *orbitCameraImpl) SetDistance(distance float32) {
	oc.distance = oc.cfg.clampDistance(distance)
}

func (oc *orbitCameraImpl) Config() Config {
	return oc.cfg
}

func (oc *orbitCameraImpl) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, builtin := oc.pitch.(PitchLimits); builtin {
		oc.pitch = cfg.Pitch
	}
	oc.cfg = cfg
	oc.distance = cfg.clampDistance(oc.distance)
	return nil
}

func (oc *orbitCameraImpl) InitTransform(rendered common.Transform) {
	oc.lastEye = rendered
}

func (oc *orbitCameraImpl) UpdateTransform(dt float32, actions input.CameraActions, caster RayCaster, rendered common.Transform) common.Transform {
	oc.followTarget()

	if oc.hasSecondary {
		oc.moveEyeToAlignTargetWith(oc.secondaryTarget)
	}
	if actions.HasMovement {
		movement := actions.Movement
		if oc.hasSecondary {
			movement = mgl32.Vec2{0, movement[1]}
		}
		oc.handleCameraControls(movement)
	}
	if actions.HasZoom {
		oc.zoom(actions.Zoom)
	}

	correction := oc.placeEyeInValidPosition(caster)
	return oc.cameraTransform(dt, rendered, correction)
}

func (oc *orbitCameraImpl) KeepLineOfSight(caster RayCaster) LineOfSightResult {
	origin := oc.target
	desired := oc.eye.Translation.Sub(oc.target)
	direction, ok := common.TryNormalize(desired)
	if !ok {
		direction, _ = common.TryNormalize(oc.cfg.FallbackDirection)
	}

	distance := oc.raycastDistance(caster, origin, direction)
	correction := CorrectionFurther
	if distance*distance < desired.Dot(desired)-oc.cfg.CorrectionEpsilon {
		correction = CorrectionCloser
	}

	return LineOfSightResult{
		Location:   origin.Add(direction.Mul(distance)),
		Correction: correction,
	}
}

func (oc *orbitCameraImpl) Snapshot() State {
	s := State{
		Eye:        oc.eye,
		Target:     oc.target,
		Up:         oc.up,
		Distance:   oc.distance,
		LastEye:    oc.lastEye,
		LastTarget: oc.lastTarget,
	}
	if oc.hasSecondary {
		secondary := oc.secondaryTarget
		s.SecondaryTarget = &secondary
	}
	return s
}

func (oc *orbitCameraImpl) Restore(s State) {
	oc.eye = s.Eye
	oc.target = s.Target
	oc.up = s.Up
	oc.distance = oc.cfg.clampDistance(s.Distance)
	oc.lastEye = s.LastEye
	oc.lastTarget = s.LastTarget
	if s.SecondaryTarget != nil {
		oc.SetSecondaryTarget(*s.SecondaryTarget)
	} else {
		oc.ClearSecondaryTarget()
	}
}

// --- pipeline stages ---

// followTarget carries the eye along with the target's movement since the last frame and
// re-aims it at the target.
func (oc *orbitCameraImpl) followTarget() {
	targetMovement := common.CollapseApproxZero(oc.target.Sub(oc.lastTarget), oc.cfg.ApproxZeroEpsilon)
	oc.eye.Translation = oc.lastEye.Translation.Add(targetMovement)

	if !common.IsApproxZero(oc.target.Sub(oc.eye.Translation), oc.cfg.ApproxZeroEpsilon) {
		oc.eye.LookAt(oc.target, oc.up)
	}
}

// moveEyeToAlignTargetWith swings the eye horizontally around the target so that the
// target sits between the eye and secondary. Pitch is left alone.
func (oc *orbitCameraImpl) moveEyeToAlignTargetWith(secondary mgl32.Vec3) {
	_, targetToSecondary := common.SplitVertical(secondary.Sub(oc.target), oc.up)
	if common.IsApproxZero(targetToSecondary, oc.cfg.ApproxZeroEpsilon) {
		return
	}
	targetToSecondary, ok := common.TryNormalize(targetToSecondary)
	if !ok {
		return
	}

	_, eyeToTarget := common.SplitVertical(oc.target.Sub(oc.eye.Translation), oc.up)
	eyeToTarget, ok = common.TryNormalize(eyeToTarget)
	if !ok {
		// Eye is straight above or below the target: no horizontal facing to rotate.
		return
	}

	// Both directions are horizontal, so the alignment is a pure yaw about up.
	angle := common.SignedAngleAround(eyeToTarget, targetToSecondary, oc.up)
	oc.eye.RotateAround(oc.target, quatFromAxisAngle(oc.up, angle))
}

// handleCameraControls converts movement input into yaw and pitch around the target.
func (oc *orbitCameraImpl) handleCameraControls(movement mgl32.Vec2) {
	movement = movement.Mul(oc.cfg.MouseSensitivity)
	if !common.IsFinite(movement[0]) || !common.IsFinite(movement[1]) {
		return
	}

	yaw := -common.Clamp(movement[0], -math.Pi, math.Pi)
	pitch := oc.pitch.ClampPitch(oc.up, oc.Forward(), -movement[1])
	oc.rotateAroundTarget(yaw, pitch)
}

func (oc *orbitCameraImpl) rotateAroundTarget(yaw, pitch float32) {
	yawRotation := quatFromAxisAngle(oc.up, yaw)
	pitchRotation := quatFromAxisAngle(oc.eye.LocalX(), pitch)

	rotation := yawRotation.Mul(pitchRotation)
	oc.eye.RotateAround(oc.target, rotation)
}

func (oc *orbitCameraImpl) zoom(zoom float32) {
	if !common.IsFinite(zoom) {
		return
	}
	oc.distance = oc.cfg.clampDistance(oc.distance + zoom*oc.cfg.ZoomSpeed)
}

// placeEyeInValidPosition commits the line-of-sight corrected eye and advances the
// double buffer.
func (oc *orbitCameraImpl) placeEyeInValidPosition(caster RayCaster) LineOfSightCorrection {
	result := oc.KeepLineOfSight(caster)
	oc.eye.Translation = result.Location
	oc.lastEye = oc.eye
	oc.lastTarget = oc.target
	return result.Correction
}

// cameraTransform smooths the rendered transform toward the eye. Pulled-in corrections use
// the faster translation rate.
func (oc *orbitCameraImpl) cameraTransform(dt float32, rendered common.Transform, correction LineOfSightCorrection) common.Transform {
	translationSmoothing := oc.cfg.TranslationSmoothingCloser
	if correction == CorrectionFurther {
		translationSmoothing = oc.cfg.TranslationSmoothingFurther
	}

	scale := smoothingFactor(translationSmoothing, dt)
	if scale >= 1 {
		rendered.Translation = oc.eye.Translation
	} else {
		rendered.Translation = common.LerpVec3(rendered.Translation, oc.eye.Translation, scale)
	}

	scale = smoothingFactor(oc.cfg.RotationSmoothing, dt)
	rendered.Rotation = common.SlerpShortest(rendered.Rotation, oc.eye.Rotation, scale)

	return rendered
}

// raycastDistance returns how far along direction the eye may sit.
func (oc *orbitCameraImpl) raycastDistance(caster RayCaster, origin, direction mgl32.Vec3) float32 {
	if caster == nil {
		return oc.distance
	}
	toi, hit := caster.CastRay(origin, direction, oc.distance)
	if !hit || !common.IsFinite(toi) || toi > oc.distance {
		return oc.distance
	}
	// A hit inside the clearance still leaves the eye off the target so its direction survives.
	return max(toi-oc.cfg.Clearance, min(oc.minEyeOffset(), oc.distance))
}

// minEyeOffset is the closest the eye may be pulled toward the target. At 4x the per-component
// epsilon some component of the offset always exceeds it, so followTarget keeps re-aiming.
func (oc *orbitCameraImpl) minEyeOffset() float32 {
	return 4 * oc.cfg.ApproxZeroEpsilon
}

// smoothingFactor is min(rate*dt, 1), with non-positive or NaN dt mapped to 0.
func smoothingFactor(rate, dt float32) float32 {
	if !(dt > 0) {
		return 0
	}
	return min(rate*dt, 1)
}

// quatFromAxisAngle is QuatRotate with a normalized axis; a zero axis yields identity.
func quatFromAxisAngle(axis mgl32.Vec3, angle float32) mgl32.Quat {
	n, ok := common.TryNormalize(axis)
	if !ok || angle == 0 || !common.IsFinite(angle) {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(angle, n)
}

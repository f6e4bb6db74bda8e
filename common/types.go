// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid world-space pose: a translation and a unit rotation.
// Camera conventions: local -Z is forward, local +X is right, local +Y is up.
// The zero value has a zero quaternion, which every consumer in this module treats as identity.
type Transform struct {
	// Translation is the world-space position.
	Translation mgl32.Vec3 `yaml:"translation"`

	// Rotation is the world-space orientation.
	Rotation mgl32.Quat `yaml:"rotation"`
}

// IdentityTransform returns a Transform at the origin with no rotation.
//
// Returns:
//   - Transform: the identity pose
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// TransformFromXYZ returns an unrotated Transform at the given position.
//
// Parameters:
//   - x, y, z: world-space position
//
// Returns:
//   - Transform: the new pose
func TransformFromXYZ(x, y, z float32) Transform {
	return Transform{Translation: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()}
}

// Forward returns the unit direction the transform faces (its local -Z axis).
func (t Transform) Forward() mgl32.Vec3 {
	return SanitizeRotation(t.Rotation).Rotate(mgl32.Vec3{0, 0, -1})
}

// LocalX returns the transform's local right axis.
func (t Transform) LocalX() mgl32.Vec3 {
	return SanitizeRotation(t.Rotation).Rotate(AxisX)
}

// LocalY returns the transform's local up axis.
func (t Transform) LocalY() mgl32.Vec3 {
	return SanitizeRotation(t.Rotation).Rotate(AxisY)
}

// LookAt rotates the transform so its forward axis points at target, keeping its local
// up axis as close to up as possible. Leaves the rotation untouched when target coincides
// with the translation.
//
// Parameters:
//   - target: world-space point to face
//   - up: world up direction
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	if rot, ok := LookRotation(target.Sub(t.Translation), up); ok {
		t.Rotation = rot
	}
}

// RotateAround rotates the transform about pivot: the translation orbits the pivot and
// the orientation is pre-multiplied by rotation.
//
// Parameters:
//   - pivot: world-space point to rotate around
//   - rotation: the rotation to apply
func (t *Transform) RotateAround(pivot mgl32.Vec3, rotation mgl32.Quat) {
	t.Translation = pivot.Add(rotation.Rotate(t.Translation.Sub(pivot)))
	t.Rotation = rotation.Mul(SanitizeRotation(t.Rotation)).Normalize()
}

// Matrix returns the local-to-world matrix of the transform (column-major).
func (t Transform) Matrix() mgl32.Mat4 {
	p := t.Translation
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(SanitizeRotation(t.Rotation).Mat4())
}

// ViewMatrix returns the world-to-local matrix of the transform, i.e. the view matrix of a
// camera placed at this pose.
func (t Transform) ViewMatrix() mgl32.Mat4 {
	p := t.Translation
	return SanitizeRotation(t.Rotation).Conjugate().Mat4().Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}

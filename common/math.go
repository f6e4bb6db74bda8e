package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis constants in the engine's right-handed, Y-up coordinate system.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// IsApproxZero reports whether every component of v is smaller than eps in magnitude.
//
// Parameters:
//   - v: the vector to test
//   - eps: per-component tolerance
//
// Returns:
//   - bool: true if v is approximately the zero vector
func IsApproxZero(v mgl32.Vec3, eps float32) bool {
	return abs32(v[0]) < eps && abs32(v[1]) < eps && abs32(v[2]) < eps
}

// CollapseApproxZero snaps v to the exact zero vector when every component is below eps.
// Components are snapped together, never individually, so a real movement along one
// axis keeps its tiny drift on the others.
//
// Parameters:
//   - v: the vector to collapse
//   - eps: per-component tolerance
//
// Returns:
//   - mgl32.Vec3: v, or the zero vector
func CollapseApproxZero(v mgl32.Vec3, eps float32) mgl32.Vec3 {
	if IsApproxZero(v, eps) {
		return mgl32.Vec3{}
	}
	return v
}

// SplitVertical decomposes v into the component along up and the component in the
// plane orthogonal to up. up does not need to be unit length, but must not be zero.
//
// Parameters:
//   - v: the vector to split
//   - up: the vertical axis
//
// Returns:
//   - vertical: projection of v onto up
//   - horizontal: v minus its vertical part
func SplitVertical(v, up mgl32.Vec3) (vertical, horizontal mgl32.Vec3) {
	upLenSq := up.Dot(up)
	if upLenSq == 0 {
		return mgl32.Vec3{}, v
	}
	vertical = up.Mul(v.Dot(up) / upLenSq)
	horizontal = v.Sub(vertical)
	return vertical, horizontal
}

// TryNormalize returns v scaled to unit length, or false if v is too short
// (or non-finite) to normalize safely.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the normalized vector, zero on failure
//   - bool: true on success
func TryNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	lenSq := v.Dot(v)
	if lenSq <= 1e-12 || !IsFinite(lenSq) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / float32(math.Sqrt(float64(lenSq)))), true
}

// LookRotation builds the rotation whose local -Z axis points along forward and whose
// local +Y axis lies in the plane spanned by forward and up.
// When forward is parallel to up an arbitrary perpendicular right axis is chosen.
//
// Parameters:
//   - forward: desired facing direction (need not be normalized)
//   - up: approximate up direction
//
// Returns:
//   - mgl32.Quat: the look rotation
//   - bool: false if forward is degenerate, in which case the identity is returned
func LookRotation(forward, up mgl32.Vec3) (mgl32.Quat, bool) {
	back, ok := TryNormalize(forward.Mul(-1))
	if !ok {
		return mgl32.QuatIdent(), false
	}
	right, ok := TryNormalize(up.Cross(back))
	if !ok {
		right = anyPerpendicular(back)
	}
	newUp := back.Cross(right)

	// Column-major basis: right, up, back.
	m := mgl32.Mat4{
		right[0], right[1], right[2], 0,
		newUp[0], newUp[1], newUp[2], 0,
		back[0], back[1], back[2], 0,
		0, 0, 0, 1,
	}
	return mgl32.Mat4ToQuat(m).Normalize(), true
}

// SignedAngleAround returns the angle that rotates from onto to about axis, in (-π, π].
// from and to should both be orthogonal to axis; opposite vectors yield π.
//
// Parameters:
//   - from: source direction
//   - to: destination direction
//   - axis: rotation axis (need not be normalized)
//
// Returns:
//   - float32: the signed rotation angle in radians
func SignedAngleAround(from, to, axis mgl32.Vec3) float32 {
	n, ok := TryNormalize(axis)
	if !ok {
		return 0
	}
	sin := n.Dot(from.Cross(to))
	cos := from.Dot(to)
	return float32(math.Atan2(float64(sin), float64(cos)))
}

// LerpVec3 linearly interpolates between a and b.
//
// Parameters:
//   - a: value at t = 0
//   - b: value at t = 1
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * t
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SlerpShortest spherically interpolates between a and b along the shorter arc.
// The endpoints are returned exactly for t <= 0 and t >= 1 so a full snap lands
// on b without round-off.
//
// Parameters:
//   - a: rotation at t = 0
//   - b: rotation at t = 1
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated unit rotation
func SlerpShortest(a, b mgl32.Quat, t float32) mgl32.Quat {
	a = SanitizeRotation(a)
	b = SanitizeRotation(b)
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}

// SanitizeRotation returns q normalized, or the identity when q is the zero quaternion
// or contains non-finite components. Zero-valued Transforms coming from a host therefore
// behave like identity rotations.
//
// Parameters:
//   - q: the rotation to sanitize
//
// Returns:
//   - mgl32.Quat: a unit rotation
func SanitizeRotation(q mgl32.Quat) mgl32.Quat {
	lenSq := q.Dot(q)
	if lenSq <= 1e-12 || !IsFinite(lenSq) {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

// AngleBetween returns the unsigned angle between a and b in radians, or 0 if either is zero.
//
// Parameters:
//   - a, b: the vectors to compare
//
// Returns:
//   - float32: angle in [0, π]
func AngleBetween(a, b mgl32.Vec3) float32 {
	na, okA := TryNormalize(a)
	nb, okB := TryNormalize(b)
	if !okA || !okB {
		return 0
	}
	return float32(math.Acos(float64(mgl32.Clamp(na.Dot(nb), -1, 1))))
}

// PerspectiveZO creates a right-handed perspective projection matrix mapping view depth
// into the WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// anyPerpendicular returns a unit vector orthogonal to the unit vector v.
func anyPerpendicular(v mgl32.Vec3) mgl32.Vec3 {
	if p, ok := TryNormalize(AxisX.Cross(v)); ok {
		return p
	}
	p, _ := TryNormalize(AxisZ.Cross(v))
	return p
}

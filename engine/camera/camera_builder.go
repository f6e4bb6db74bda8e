package camera

import "github.com/Carmen-Shannon/oxy-orbit/common"

// CameraBuilderOption is a functional option for configuring a perspective Camera.
type CameraBuilderOption func(*cameraImpl)

// WithFov overrides the 45° default vertical field of view.
//
// Parameters:
//   - fov: vertical field of view in radians
//
// Returns:
//   - CameraBuilderOption: functional option to set the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets width/height of the viewport the camera projects onto. Hosts usually pass
// the framebuffer aspect and update it on resize with SetAspect.
//
// Parameters:
//   - aspect: viewport width divided by height
//
// Returns:
//   - CameraBuilderOption: functional option to set the aspect
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear moves the near plane. Keep it above zero; depth precision falls off quickly as it
// approaches the eye.
//
// Parameters:
//   - near: distance from the eye to the near plane
//
// Returns:
//   - CameraBuilderOption: functional option to set the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar moves the far plane.
//
// Parameters:
//   - far: distance from the eye to the far plane
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithTransform seeds the pose the first matrices are built from, normally the orbit
// camera's initial eye.
//
// Parameters:
//   - t: the initial rendered pose
//
// Returns:
//   - CameraBuilderOption: functional option to set the initial pose
func WithTransform(t common.Transform) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform = t
	}
}

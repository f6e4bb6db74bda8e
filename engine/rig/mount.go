package rig

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// TargetProvider reports where a camera should look each frame.
type TargetProvider interface {
	// Targets returns the primary target and, when hasSecondary is true, a secondary
	// target the camera should keep behind the primary.
	//
	// Returns:
	//   - primary: world-space position to orbit
	//   - secondary: world-space position to align with
	//   - hasSecondary: whether secondary is set
	Targets() (primary, secondary mgl32.Vec3, hasSecondary bool)
}

// TargetFunc adapts a function to TargetProvider.
type TargetFunc func() (primary, secondary mgl32.Vec3, hasSecondary bool)

// Targets implements TargetProvider.
func (f TargetFunc) Targets() (mgl32.Vec3, mgl32.Vec3, bool) {
	return f()
}

// FixedTarget is a TargetProvider that never moves.
type FixedTarget struct {
	Primary      mgl32.Vec3
	Secondary    mgl32.Vec3
	HasSecondary bool
}

// Targets implements TargetProvider.
func (f FixedTarget) Targets() (mgl32.Vec3, mgl32.Vec3, bool) {
	return f.Primary, f.Secondary, f.HasSecondary
}

// Mount binds one orbit controller to its input, its targets, and the transform it
// renders from. A mount is stepped by at most one goroutine at a time.
type Mount struct {
	mu sync.Mutex

	name       string
	controller camera.OrbitCamera
	input      input.Provider
	targets    TargetProvider
	view       camera.Camera
	rendered   common.Transform
}

// MountOption is a functional option for configuring a Mount.
type MountOption func(*Mount)

// WithInput sets the mount's input provider. Without one the camera receives no input.
//
// Parameters:
//   - p: the input provider
//
// Returns:
//   - MountOption: functional option to set the input provider
func WithInput(p input.Provider) MountOption {
	return func(m *Mount) {
		m.input = p
	}
}

// WithTargets sets the mount's target provider. Without one the controller keeps whatever
// target it was given directly.
//
// Parameters:
//   - tp: the target provider
//
// Returns:
//   - MountOption: functional option to set the target provider
func WithTargets(tp TargetProvider) MountOption {
	return func(m *Mount) {
		m.targets = tp
	}
}

// WithView attaches a perspective camera that is updated from the rendered transform after
// every step.
//
// Parameters:
//   - view: the perspective camera
//
// Returns:
//   - MountOption: functional option to set the view
func WithView(view camera.Camera) MountOption {
	return func(m *Mount) {
		m.view = view
	}
}

// WithRendered sets the initial rendered transform. Defaults to the controller's eye.
//
// Parameters:
//   - t: the initial rendered pose
//
// Returns:
//   - MountOption: functional option to set the rendered transform
func WithRendered(t common.Transform) MountOption {
	return func(m *Mount) {
		m.rendered = t
	}
}

// NewMount creates a mount around controller and seeds the controller with the initial
// rendered transform. The controller's target is left as constructed; use
// camera.WithTarget to start it on the provider's primary target.
//
// Parameters:
//   - name: unique mount name within a rig
//   - controller: the orbit controller to drive
//   - options: functional options to configure the mount
//
// Returns:
//   - *Mount: the new mount
func NewMount(name string, controller camera.OrbitCamera, options ...MountOption) *Mount {
	m := &Mount{
		name:       name,
		controller: controller,
		rendered:   controller.Eye(),
	}
	for _, option := range options {
		option(m)
	}
	controller.InitTransform(m.rendered)
	return m
}

// Name returns the mount's name.
func (m *Mount) Name() string {
	return m.name
}

// Controller returns the orbit controller. Do not call its mutating methods while the
// owning rig is stepping.
func (m *Mount) Controller() camera.OrbitCamera {
	return m.controller
}

// Rendered returns the transform produced by the most recent step.
func (m *Mount) Rendered() common.Transform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rendered
}

// Retarget switches the mount to a new target provider. The jump from the old target to
// the new one counts as target movement, so the eye carries its offset over to the new
// target on the next step.
//
// Parameters:
//   - tp: the new target provider
func (m *Mount) Retarget(tp TargetProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = tp
	if tp == nil {
		return
	}
	primary, _, _ := tp.Targets()
	m.controller.SetTarget(primary)
	m.controller.InitTransform(m.rendered)
}

// step runs one controller frame.
func (m *Mount) step(dt float32, caster camera.RayCaster) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions := input.NoActions()
	if m.input != nil {
		actions = m.input.CameraActions()
	}
	if m.targets != nil {
		primary, secondary, ok := m.targets.Targets()
		m.controller.SetTarget(primary)
		if ok {
			m.controller.SetSecondaryTarget(secondary)
		} else {
			m.controller.ClearSecondaryTarget()
		}
	}

	m.rendered = m.controller.UpdateTransform(dt, actions, caster, m.rendered)
	if m.view != nil {
		m.view.Update(m.rendered)
	}
}

// package input carries per-frame camera control intents from whatever produces them (a window,
// a replay, a test) to the orbit camera. Values are already mapped: Movement drives yaw (X) and
// pitch (Y), Zoom drives distance.
package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraActions is one frame of camera input. Either part may be absent.
type CameraActions struct {
	// Movement is the yaw/pitch drive for this frame.
	Movement mgl32.Vec2
	// HasMovement is false when there was no movement input this frame.
	HasMovement bool

	// Zoom is the distance drive for this frame. Positive moves the eye away.
	Zoom float32
	// HasZoom is false when there was no zoom input this frame.
	HasZoom bool
}

// NoActions returns an empty CameraActions.
func NoActions() CameraActions {
	return CameraActions{}
}

// WithMovement returns a copy of a with movement input set.
//
// Parameters:
//   - x: yaw drive
//   - y: pitch drive
//
// Returns:
//   - CameraActions: the updated actions
func (a CameraActions) WithMovement(x, y float32) CameraActions {
	a.Movement = mgl32.Vec2{x, y}
	a.HasMovement = true
	return a
}

// WithZoom returns a copy of a with zoom input set.
//
// Parameters:
//   - zoom: zoom drive
//
// Returns:
//   - CameraActions: the updated actions
func (a CameraActions) WithZoom(zoom float32) CameraActions {
	a.Zoom = zoom
	a.HasZoom = true
	return a
}

// Provider yields camera input once per frame.
type Provider interface {
	// CameraActions returns the input gathered since the previous call.
	//
	// Returns:
	//   - CameraActions: this frame's camera input
	CameraActions() CameraActions
}

// Accumulator is a Provider that sums raw deltas reported between frames, typically from
// window callbacks, and hands the totals out once per frame. Safe for concurrent use.
// Create with NewAccumulator; the zero value scales every delta to zero.
type Accumulator struct {
	mu       sync.Mutex
	pending  CameraActions
	movement float32
	zoom     float32
}

var _ Provider = &Accumulator{}

// NewAccumulator creates an Accumulator with unit scale for movement and zoom.
//
// Returns:
//   - *Accumulator: the new accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{movement: 1, zoom: 1}
}

// SetScale sets the multipliers applied to incoming movement and zoom deltas.
//
// Parameters:
//   - movement: multiplier for AddMovement deltas
//   - zoom: multiplier for AddZoom deltas
func (a *Accumulator) SetScale(movement, zoom float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.movement = movement
	a.zoom = zoom
}

// AddMovement adds a yaw/pitch delta.
//
// Parameters:
//   - dx: yaw drive delta
//   - dy: pitch drive delta
func (a *Accumulator) AddMovement(dx, dy float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.Movement = a.pending.Movement.Add(mgl32.Vec2{dx, dy}.Mul(a.movement))
	a.pending.HasMovement = true
}

// AddZoom adds a zoom delta.
//
// Parameters:
//   - dz: zoom drive delta
func (a *Accumulator) AddZoom(dz float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.Zoom += dz * a.zoom
	a.pending.HasZoom = true
}

// CameraActions implements Provider. The accumulated totals are reset.
func (a *Accumulator) CameraActions() CameraActions {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = CameraActions{}
	return out
}

// Script is a Provider that replays a fixed sequence of actions, one per call, then reports
// no input. Useful for demos and deterministic tests.
type Script struct {
	frames []CameraActions
	next   int
}

var _ Provider = &Script{}

// NewScript creates a Script over frames.
//
// Parameters:
//   - frames: the actions to replay in order
//
// Returns:
//   - *Script: the replay provider
func NewScript(frames ...CameraActions) *Script {
	return &Script{frames: frames}
}

// CameraActions implements Provider.
func (s *Script) CameraActions() CameraActions {
	if s.next >= len(s.frames) {
		return CameraActions{}
	}
	out := s.frames[s.next]
	s.next++
	return out
}

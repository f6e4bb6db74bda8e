// package glfw_input feeds GLFW cursor and scroll events into an input.Accumulator.
package glfw_input

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Binding holds the GLFW callback state for one window.
type Binding struct {
	window     *glfw.Window
	acc        *input.Accumulator
	dragButton glfw.MouseButton
	dragOnly   bool

	hasLast      bool
	lastX, lastY float64
}

// BindingOption is a functional option for configuring a Binding.
type BindingOption func(*Binding)

// WithDragButton only forwards cursor movement while the given mouse button is held.
//
// Parameters:
//   - button: the GLFW mouse button that enables orbiting
//
// Returns:
//   - BindingOption: functional option to require a drag button
func WithDragButton(button glfw.MouseButton) BindingOption {
	return func(b *Binding) {
		b.dragButton = button
		b.dragOnly = true
	}
}

// Attach registers cursor-position and scroll callbacks on win that feed acc. Cursor deltas
// become movement; scrolling up zooms in. Must be called from the GLFW main thread.
//
// GLFW reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
//
// Parameters:
//   - win: the GLFW window to listen on
//   - acc: the accumulator to feed
//   - options: functional options to configure the binding
//
// Returns:
//   - *Binding: the binding, used to Detach later
func Attach(win *glfw.Window, acc *input.Accumulator, options ...BindingOption) *Binding {
	b := &Binding{
		window: win,
		acc:    acc,
	}
	for _, option := range options {
		option(b)
	}

	win.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if b.dragOnly && w.GetMouseButton(b.dragButton) != glfw.Press {
			b.hasLast = false
			return
		}
		b.onCursor(xpos, ypos)
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		b.acc.AddZoom(float32(-yoff))
	})

	return b
}

// Detach removes the callbacks registered by Attach.
func (b *Binding) Detach() {
	b.window.SetCursorPosCallback(nil)
	b.window.SetScrollCallback(nil)
}

// onCursor turns absolute cursor positions into deltas. The first event after attaching
// (or after the drag button was released) only records the position.
func (b *Binding) onCursor(xpos, ypos float64) {
	if !b.hasLast {
		b.lastX, b.lastY = xpos, ypos
		b.hasLast = true
		return
	}
	dx := xpos - b.lastX
	dy := ypos - b.lastY
	b.lastX, b.lastY = xpos, ypos
	if dx == 0 && dy == 0 {
		return
	}
	b.acc.AddMovement(float32(dx), float32(dy))
}

package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// newPlatformWindow opens a client-API-less GLFW window sized and titled from w. Only the key
// and framebuffer callbacks are taken here; cursor and scroll belong to glfw_input.
//
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	// GLFW calls must come from the thread that initialized it.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("window: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("window: create %q: %w", w.title, err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{window: handle, running: true}
	w.gw = gw

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.stop()
		}
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	// The framebuffer can be larger than the requested size on high-DPI displays.
	w.width, w.height = handle.GetFramebufferSize()
	return nil
}

func (gw *glfwWindow) stop() {
	gw.running = false
	gw.window.SetShouldClose(true)
}

func (gw *glfwWindow) alive() bool {
	return gw.running && !gw.window.ShouldClose()
}

// platformGetSurfaceDescriptor wraps wgpuglfw.GetSurfaceDescriptor.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	return w.gw != nil && w.gw.alive()
}

// platformCloseWindow destroys the window and terminates GLFW. A second call is an error.
func platformCloseWindow(w *engineWindow) error {
	if w.gw == nil {
		return fmt.Errorf("window: already closed")
	}
	w.gw.running = false
	w.gw.window.Destroy()
	w.gw = nil
	glfw.Terminate()
	return nil
}

// platformProcessMessages drains pending GLFW events without blocking.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

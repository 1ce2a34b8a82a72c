package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// glfwWindow is the GLFW handle behind an engineWindow.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow opens a GLFW window without a GL context and routes its
// pointer, key and framebuffer events to the engineWindow callbacks.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// The surface is driven by WebGPU; no GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		w.dispatchKey(int(key), toKeyAction(action), uint32(mods))
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.dispatchScroll(xoff, yoff)
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := toMouseButton(button)
		if !ok {
			return
		}
		xpos, ypos := win.GetCursorPos()
		w.dispatchMouseButton(b, action == glfw.Press, xpos, ypos)
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.dispatchMove(xpos, ypos)
	})

	// Framebuffer size is the pixel size the surface and pan scaling need;
	// on high-DPI displays it differs from the window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.dispatchResize(width, height)
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

func toKeyAction(action glfw.Action) keyAction {
	switch action {
	case glfw.Press:
		return keyPress
	case glfw.Repeat:
		return keyRepeat
	default:
		return keyRelease
	}
}

func toMouseButton(button glfw.MouseButton) (common.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return common.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return common.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return common.MouseButtonMiddle, true
	default:
		return 0, false
	}
}

// platformGetSurfaceDescriptor wraps the native window handle for wgpu.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformSetTitle updates the GLFW title bar if the window has been spawned.
func platformSetTitle(w *engineWindow, title string) {
	if gw, ok := w.internalWindow.(*glfwWindow); ok {
		gw.window.SetTitle(title)
	}
}

// platformIsRunningCheck reports false once the window is gone or asked to close.
func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if gw, ok := w.internalWindow.(*glfwWindow); ok {
		gw.running = false
		gw.window.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the window and shuts GLFW down. It fails when
// no window was ever created.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return fmt.Errorf("window is not initialized")
	}
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages drains pending GLFW events.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

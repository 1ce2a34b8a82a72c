package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// ScrollUnitsPerNotch is the scroll delta reported for one wheel notch
// (1/8 degree units).
const ScrollUnitsPerNotch = 120.0

// Window owns the native window and turns its events into camera-friendly
// callbacks: float cursor positions, modifier bits and double clicks.
type Window interface {
	// SetUpdateCallback sets the function run once per event loop pass.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving new framebuffer sizes.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving horizontal and vertical deltas in 1/8 degree units
	SetScrollCallback(callback func(dx, dy float64))

	// SetKeyDownCallback sets the callback for key press events. Auto-repeat
	// does not fire it.
	//
	// Parameters:
	//   - callback: function receiving the key code and modifier bits
	SetKeyDownCallback(callback func(key int, mods uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code and modifier bits
	SetKeyUpCallback(callback func(key int, mods uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position
	SetMouseDownCallback(callback func(button common.MouseButton, x, y float64))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position
	SetMouseUpCallback(callback func(button common.MouseButton, x, y float64))

	// SetDoubleClickCallback sets the callback fired after the second press
	// of a double click.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position
	SetDoubleClickCallback(callback func(button common.MouseButton, x, y float64))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetMouseMoveCallback(callback func(x, y float64))

	// SetTitle changes the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Title returns the current title bar text.
	//
	// Returns:
	//   - string: the title
	Title() string

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The renderer creates its WebGPU surface from it.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the native window.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages blocks running the event loop until the window closes.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// It keeps the size limits, the GLFW handle and the registered callbacks.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// internalWindow is the *glfwWindow once spawned.
	internalWindow any

	clock  common.Clock
	clicks clickTracker

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(dx, dy float64)
	onKeyDown     func(key int, mods uint32)
	onKeyUp       func(key int, mods uint32)
	onMouseDown   func(button common.MouseButton, x, y float64)
	onMouseUp     func(button common.MouseButton, x, y float64)
	onDoubleClick func(button common.MouseButton, x, y float64)
	onMouseMove   func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a Window with the specified options.
// Defaults are 1280x720; options apply in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "PneumoStabSim",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  600,
		minHeight: 200,
		width:     1280,
		height:    720,
		clock:     common.RealClock{},
		clicks:    newClickTracker(DefaultDoubleClickInterval, DefaultDoubleClickSlop),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(dx, dy float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int, mods uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key int, mods uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button common.MouseButton, x, y float64)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button common.MouseButton, x, y float64)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetDoubleClickCallback(callback func(button common.MouseButton, x, y float64)) {
	w.onDoubleClick = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// --- platform-independent event dispatch ---

// dispatchMouseButton routes a press or release and detects double clicks.
func (w *engineWindow) dispatchMouseButton(button common.MouseButton, pressed bool, x, y float64) {
	if !pressed {
		if w.onMouseUp != nil {
			w.onMouseUp(button, x, y)
		}
		return
	}
	if w.onMouseDown != nil {
		w.onMouseDown(button, x, y)
	}
	if w.clicks.press(button, x, y, w.clock.Now()) && w.onDoubleClick != nil {
		w.onDoubleClick(button, x, y)
	}
}

// dispatchScroll converts wheel notches to 1/8 degree units.
func (w *engineWindow) dispatchScroll(xoff, yoff float64) {
	if w.onScroll != nil {
		w.onScroll(xoff*ScrollUnitsPerNotch, yoff*ScrollUnitsPerNotch)
	}
}

func (w *engineWindow) dispatchKey(key int, action keyAction, mods uint32) {
	switch action {
	case keyPress:
		if w.onKeyDown != nil {
			w.onKeyDown(key, mods)
		}
	case keyRelease:
		if w.onKeyUp != nil {
			w.onKeyUp(key, mods)
		}
	}
}

func (w *engineWindow) dispatchMove(x, y float64) {
	if w.onMouseMove != nil {
		w.onMouseMove(x, y)
	}
}

func (w *engineWindow) dispatchResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// keyAction mirrors the GLFW key actions the dispatcher distinguishes.
type keyAction int

const (
	keyPress keyAction = iota
	keyRepeat
	keyRelease
)

// DefaultDoubleClickInterval and DefaultDoubleClickSlop bound how far apart
// in time and space two presses may be to count as a double click.
const (
	DefaultDoubleClickInterval = 400 * time.Millisecond
	DefaultDoubleClickSlop     = 4.0
)

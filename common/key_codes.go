package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyF     = 70  // F key (ASCII)
	KeyH     = 72  // H key (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
)

// Modifier bits delivered alongside key events (GLFW ModifierKey values).
const (
	ModShift   uint32 = 0x0001
	ModControl uint32 = 0x0002
	ModAlt     uint32 = 0x0004
	ModSuper   uint32 = 0x0008
)

// MouseButton identifies a pointer button (GLFW MouseButton values).
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// String returns a short name for the button, used in debug logs.
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "other"
	}
}

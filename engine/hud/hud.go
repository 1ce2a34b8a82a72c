package hud

import (
	"fmt"
	"strings"

	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/pneumostabsim/pneumostabsim/engine/profiler"
	"github.com/rs/zerolog"
)

// Hud is the read-only camera diagnostics overlay. It formats a camera
// snapshot and the latest profiler sample; hosts decide where the text goes.
type Hud struct {
	visible bool
	logger  zerolog.Logger
}

// HudOption is a functional option for configuring a Hud.
type HudOption func(*Hud)

// WithVisible sets whether the overlay starts shown.
func WithVisible(visible bool) HudOption {
	return func(h *Hud) {
		h.visible = visible
	}
}

// WithLogger sets the logger the overlay is echoed to at debug level.
func WithLogger(logger zerolog.Logger) HudOption {
	return func(h *Hud) {
		h.logger = logger
	}
}

// New creates a hidden Hud.
func New(options ...HudOption) *Hud {
	h := &Hud{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(h)
	}
	return h
}

func (h *Hud) Visible() bool { return h.visible }

// Toggle flips visibility and reports the new state.
func (h *Hud) Toggle() bool {
	h.visible = !h.visible
	h.logger.Debug().Bool("visible", h.visible).Msg("hud toggled")
	return h.visible
}

// Lines formats the overlay text, one metric group per line.
//
// Parameters:
//   - s: the camera snapshot
//   - stats: the latest profiler sample (zero before the first sample)
//
// Returns:
//   - []string: the overlay lines
func Lines(s camera.Snapshot, stats profiler.Stats) []string {
	motion := "idle"
	if s.IsMoving {
		motion = "moving"
	}
	rotate := "off"
	if s.AutoRotate {
		rotate = fmt.Sprintf("%.2f", s.AutoRotateSpeed)
	}
	return []string{
		fmt.Sprintf("pivot %.0f %.0f %.0f mm", s.Pivot[0], s.Pivot[1], s.Pivot[2]),
		fmt.Sprintf("dist %.0f mm  yaw %.1f°  pitch %.1f°", s.Distance, s.YawDeg, s.PitchDeg),
		fmt.Sprintf("pan %.0f %.0f mm  fov %.0f°", s.PanX, s.PanY, s.Fov),
		fmt.Sprintf("clip %.1f..%.0f mm  speed %.2f", s.NearPlane, s.FarPlane, s.Speed),
		fmt.Sprintf("auto-rotate %s  %s (settle %d ms)", rotate, motion, s.MotionSettlingMs),
		fmt.Sprintf("%.0f fps  heap %.1f MB", stats.FPS, stats.HeapMB),
	}
}

// Title composes the window title: the base title alone while hidden, or the
// base title followed by the compact overlay while visible.
//
// Parameters:
//   - base: the configured window title
//   - s: the camera snapshot
//   - stats: the latest profiler sample
//
// Returns:
//   - string: the window title
func (h *Hud) Title(base string, s camera.Snapshot, stats profiler.Stats) string {
	if !h.visible {
		return base
	}
	return fmt.Sprintf("%s | d=%.0f yaw=%.0f pitch=%.0f fov=%.0f | %.0f fps",
		base, s.Distance, s.YawDeg, s.PitchDeg, s.Fov, stats.FPS)
}

// Log writes the overlay to the debug log while visible.
func (h *Hud) Log(s camera.Snapshot, stats profiler.Stats) {
	if !h.visible {
		return
	}
	h.logger.Debug().Msg(strings.Join(Lines(s, stats), " | "))
}

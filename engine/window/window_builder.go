package window

import (
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
)

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSizeLimits sets the minimum and maximum window size.
//
// Parameters:
//   - minWidth, minHeight: minimum size in pixels
//   - maxWidth, maxHeight: maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithClock sets the time source used for double-click detection.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithClock(clock common.Clock) WindowBuilderOption {
	return func(w *engineWindow) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithDoubleClick sets the double-click interval and positional slop.
//
// Parameters:
//   - interval: maximum time between the two presses
//   - slop: maximum cursor travel in pixels on either axis
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithDoubleClick(interval time.Duration, slop float64) WindowBuilderOption {
	return func(w *engineWindow) {
		w.clicks = newClickTracker(interval, slop)
	}
}

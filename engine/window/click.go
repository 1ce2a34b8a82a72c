package window

import (
	"math"
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
)

// clickTracker recognizes double clicks from a stream of presses. GLFW only
// reports single presses.
type clickTracker struct {
	interval time.Duration
	slop     float64

	armed  bool
	button common.MouseButton
	x, y   float64
	at     time.Time
}

func newClickTracker(interval time.Duration, slop float64) clickTracker {
	return clickTracker{interval: interval, slop: slop}
}

// press records a press and reports whether it completes a double click:
// the same button as the previous press, within interval, and within slop
// pixels on both axes. A completed double click disarms the tracker so a
// third press starts over.
func (c *clickTracker) press(button common.MouseButton, x, y float64, at time.Time) bool {
	double := c.armed &&
		button == c.button &&
		at.Sub(c.at) <= c.interval &&
		math.Abs(x-c.x) <= c.slop &&
		math.Abs(y-c.y) <= c.slop
	if double {
		c.armed = false
		return true
	}
	c.armed = true
	c.button = button
	c.x, c.y = x, y
	c.at = at
	return false
}

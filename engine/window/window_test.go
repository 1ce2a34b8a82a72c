package window

import (
	"testing"
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type buttonEvent struct {
	kind   string
	button common.MouseButton
	x, y   float64
}

func newTestWindow(clock *common.MockClock) (*engineWindow, *[]buttonEvent) {
	w := newEngineWindow(WithClock(clock))
	var events []buttonEvent
	record := func(kind string) func(common.MouseButton, float64, float64) {
		return func(b common.MouseButton, x, y float64) {
			events = append(events, buttonEvent{kind, b, x, y})
		}
	}
	w.SetMouseDownCallback(record("down"))
	w.SetMouseUpCallback(record("up"))
	w.SetDoubleClickCallback(record("double"))
	return w, &events
}

func TestClickTracker(t *testing.T) {
	tests := []struct {
		name   string
		second func(c *clickTracker) bool
		want   bool
	}{
		{"same spot quickly", func(c *clickTracker) bool {
			return c.press(common.MouseButtonLeft, 12, 11, epoch.Add(300*time.Millisecond))
		}, true},
		{"on the interval", func(c *clickTracker) bool {
			return c.press(common.MouseButtonLeft, 10, 10, epoch.Add(400*time.Millisecond))
		}, true},
		{"too slow", func(c *clickTracker) bool {
			return c.press(common.MouseButtonLeft, 10, 10, epoch.Add(401*time.Millisecond))
		}, false},
		{"moved too far", func(c *clickTracker) bool {
			return c.press(common.MouseButtonLeft, 15, 10, epoch.Add(100*time.Millisecond))
		}, false},
		{"other button", func(c *clickTracker) bool {
			return c.press(common.MouseButtonRight, 10, 10, epoch.Add(100*time.Millisecond))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClickTracker(DefaultDoubleClickInterval, DefaultDoubleClickSlop)
			assert.False(t, c.press(common.MouseButtonLeft, 10, 10, epoch))
			assert.Equal(t, tt.want, tt.second(&c))
		})
	}
}

func TestClickTrackerTripleClick(t *testing.T) {
	c := newClickTracker(DefaultDoubleClickInterval, DefaultDoubleClickSlop)

	assert.False(t, c.press(common.MouseButtonLeft, 0, 0, epoch))
	assert.True(t, c.press(common.MouseButtonLeft, 0, 0, epoch.Add(100*time.Millisecond)))
	assert.False(t, c.press(common.MouseButtonLeft, 0, 0, epoch.Add(200*time.Millisecond)))
	assert.True(t, c.press(common.MouseButtonLeft, 0, 0, epoch.Add(300*time.Millisecond)))
}

func TestDispatchMouseButton(t *testing.T) {
	clock := common.NewMockClock(epoch)
	w, events := newTestWindow(clock)

	w.dispatchMouseButton(common.MouseButtonLeft, true, 5, 6)
	w.dispatchMouseButton(common.MouseButtonLeft, false, 5, 6)
	clock.Advance(150 * time.Millisecond)
	w.dispatchMouseButton(common.MouseButtonLeft, true, 6, 6)

	assert.Equal(t, []buttonEvent{
		{"down", common.MouseButtonLeft, 5, 6},
		{"up", common.MouseButtonLeft, 5, 6},
		{"down", common.MouseButtonLeft, 6, 6},
		{"double", common.MouseButtonLeft, 6, 6},
	}, *events)
}

func TestDispatchScrollConvertsNotches(t *testing.T) {
	w := newEngineWindow()
	var gotX, gotY float64
	w.SetScrollCallback(func(dx, dy float64) { gotX, gotY = dx, dy })

	w.dispatchScroll(0, -1.5)

	assert.Equal(t, 0.0, gotX)
	assert.Equal(t, -180.0, gotY)
}

func TestDispatchKeyIgnoresRepeat(t *testing.T) {
	w := newEngineWindow()
	var downs, ups []int
	w.SetKeyDownCallback(func(key int, mods uint32) { downs = append(downs, key) })
	w.SetKeyUpCallback(func(key int, mods uint32) { ups = append(ups, key) })

	w.dispatchKey(common.KeyR, keyPress, 0)
	w.dispatchKey(common.KeyR, keyRepeat, 0)
	w.dispatchKey(common.KeyR, keyRelease, 0)

	assert.Equal(t, []int{common.KeyR}, downs)
	assert.Equal(t, []int{common.KeyR}, ups)
}

func TestDispatchWithoutCallbacks(t *testing.T) {
	w := newEngineWindow()

	assert.NotPanics(t, func() {
		w.dispatchMouseButton(common.MouseButtonLeft, true, 0, 0)
		w.dispatchMouseButton(common.MouseButtonLeft, false, 0, 0)
		w.dispatchScroll(1, 1)
		w.dispatchKey(common.KeyF, keyPress, 0)
		w.dispatchMove(1, 2)
		w.dispatchResize(800, 600)
	})
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestUnspawnedWindow(t *testing.T) {
	w := newEngineWindow(WithTitle("test"), WithWidth(640), WithHeight(480))

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, w.RequestClose)

	w.SetTitle("renamed")
	assert.Equal(t, "renamed", w.Title())
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

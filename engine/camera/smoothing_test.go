package camera

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSmootherFirstStepSnaps(t *testing.T) {
	s := NewSmoother(DefaultSmoothing)
	target := NewState().Pose()

	assert.Equal(t, target, s.Step(target, 1.0/60))
}

func TestSmootherApproachesTarget(t *testing.T) {
	s := NewSmoother(DefaultSmoothing)
	start := NewState().Pose()
	s.Step(start, 1.0/60)

	target := start
	target.YawDeg = start.YawDeg + 90
	target.Distance = 5000

	first := s.Step(target, 1.0/60)
	assert.Greater(t, first.YawDeg, start.YawDeg)
	assert.Less(t, first.YawDeg, target.YawDeg)

	var eased Pose
	for range 30 {
		eased = s.Step(target, 1.0/60)
	}
	assert.InDelta(t, target.YawDeg, eased.YawDeg, 0.01)
	assert.InDelta(t, target.Distance, eased.Distance, 0.1)
	assert.Equal(t, target.Pivot, eased.Pivot)
	assert.Equal(t, target.Fov, eased.Fov)
}

func TestSmootherDisabledAndBadDt(t *testing.T) {
	off := NewSmoother(0)
	start := NewState().Pose()
	off.Step(start, 1.0/60)

	target := start
	target.PitchDeg = 10
	assert.Equal(t, target, off.Step(target, 1.0/60))

	s := NewSmoother(100 * time.Millisecond)
	s.Step(start, 1.0/60)
	assert.Equal(t, target, s.Step(target, math.NaN()))
	assert.Equal(t, 100*time.Millisecond, s.SettleTime())
}

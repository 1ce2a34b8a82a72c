package camera

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// DefaultSmoothing is the time the eased pose needs to reach a new target.
const DefaultSmoothing = 75 * time.Millisecond

// settleOmegaFactor relates the angular frequency of a critically damped
// spring to the time it takes to come within 2% of its target.
const settleOmegaFactor = 5.8

// axis is one eased scalar and its velocity.
type axis struct {
	pos, vel float64
}

func (a *axis) step(spring harmonica.Spring, target float64) {
	a.pos, a.vel = spring.Update(a.pos, a.vel, target)
}

func (a *axis) snap(target float64) {
	a.pos, a.vel = target, 0
}

// Smoother eases yaw, pitch, distance and pan toward their targets with
// critically damped springs. The eased pose is presentation only; State keeps
// the authoritative targets.
type Smoother struct {
	settle time.Duration
	omega  float64

	yaw, pitch, distance, panX, panY axis

	lastDt float64
	spring harmonica.Spring
	primed bool
}

// NewSmoother creates a Smoother that settles in roughly the given duration.
// A non-positive duration disables easing and every Step returns the target.
//
// Parameters:
//   - settle: approximate settle time of the step response
//
// Returns:
//   - *Smoother: the newly created smoother
func NewSmoother(settle time.Duration) *Smoother {
	s := &Smoother{}
	s.SetSettleTime(settle)
	return s
}

// SettleTime returns the configured settle time.
func (s *Smoother) SettleTime() time.Duration {
	return s.settle
}

// SetSettleTime changes the settle time. Pending motion continues from the
// current eased values.
func (s *Smoother) SetSettleTime(settle time.Duration) {
	s.settle = settle
	s.omega = 0
	if settle > 0 {
		s.omega = settleOmegaFactor / settle.Seconds()
	}
	s.lastDt = 0
}

// Snap jumps every eased value to the target and stops all motion.
//
// Parameters:
//   - target: the pose to jump to
func (s *Smoother) Snap(target Pose) {
	s.yaw.snap(target.YawDeg)
	s.pitch.snap(target.PitchDeg)
	s.distance.snap(target.Distance)
	s.panX.snap(target.PanX)
	s.panY.snap(target.PanY)
	s.primed = true
}

// Step advances the eased values by dt seconds toward target and returns the
// eased pose. Pivot, field of view and clip planes are never eased.
// The first call, or any call with a non-positive dt, snaps.
//
// Parameters:
//   - target: the authoritative pose
//   - dt: elapsed time in seconds since the previous step
//
// Returns:
//   - Pose: target with its orbit and pan fields replaced by eased values
func (s *Smoother) Step(target Pose, dt float64) Pose {
	if !s.primed || s.omega == 0 || !common.IsFinite(dt) || dt <= 0 {
		s.Snap(target)
		return target
	}
	if dt != s.lastDt {
		s.spring = harmonica.NewSpring(dt, s.omega, 1.0)
		s.lastDt = dt
	}

	s.yaw.step(s.spring, target.YawDeg)
	s.pitch.step(s.spring, target.PitchDeg)
	s.distance.step(s.spring, target.Distance)
	s.panX.step(s.spring, target.PanX)
	s.panY.step(s.spring, target.PanY)

	eased := target
	eased.YawDeg = s.yaw.pos
	eased.PitchDeg = ClampPitch(s.pitch.pos)
	eased.Distance = s.distance.pos
	eased.PanX = s.panX.pos
	eased.PanY = s.panY.pos
	return eased
}

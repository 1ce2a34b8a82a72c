package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// Geometry describes the stabilizer frame the camera frames during auto-fit
// and reset. All lengths are in controller units. FrameToPivot is optional and
// NaN marks it absent.
type Geometry struct {
	FrameLength  float64
	TrackWidth   float64
	FrameHeight  float64
	BeamSize     float64
	FrameToPivot float64
}

// DefaultGeometry returns the frame used until the host sends its own.
func DefaultGeometry() Geometry {
	return Geometry{
		FrameLength:  3200,
		TrackWidth:   DefaultTrackWidth,
		FrameHeight:  650,
		BeamSize:     120,
		FrameToPivot: math.NaN(),
	}
}

// ResolveFrameToPivot returns the effective pivot offset along the frame.
// An absent or non-finite value defaults to half the frame length, and the
// result is always kept inside [0, frameLength].
//
// Parameters:
//   - frameLength: frame length in controller units
//   - frameToPivot: requested offset from the frame start, NaN when absent
//
// Returns:
//   - float64: the offset clamped to the frame
func ResolveFrameToPivot(frameLength, frameToPivot float64) float64 {
	length := nonNegative(frameLength)
	if !common.IsFinite(frameToPivot) {
		frameToPivot = length / 2
	}
	return common.ClampFinite(frameToPivot, 0, length, length/2)
}

// framePivot returns the geometric center of the frame as seen by the orbit:
// the frame is centered on Z, the beam sits on Y=0.
func framePivot(g Geometry) mgl64.Vec3 {
	length := nonNegative(g.FrameLength)
	return mgl64.Vec3{
		0,
		nonNegative(g.BeamSize)/2 + nonNegative(g.FrameHeight)/2,
		ResolveFrameToPivot(length, g.FrameToPivot) - length/2,
	}
}

// optimalDistance returns the distance at which the largest frame dimension
// fills the vertical field of view with the given margin.
func optimalDistance(g Geometry, trackWidth, fovDeg, margin float64) float64 {
	maxDim := math.Max(
		nonNegative(g.FrameLength),
		math.Max(nonNegative(trackWidth), nonNegative(g.FrameHeight)+nonNegative(g.BeamSize)),
	)
	halfFov := mgl64.DegToRad(clampFov(fovDeg)) / 2
	return ClampDistance(maxDim * margin / (2 * math.Tan(halfFov)))
}

func effectiveMargin(margin float64) float64 {
	if !common.IsFinite(margin) {
		return DefaultMarginFactor
	}
	return math.Max(1, margin)
}

func nonNegative(v float64) float64 {
	if !common.IsFinite(v) || v < 0 {
		return 0
	}
	return v
}

// AutoFitFrame centers the pivot on the frame and moves the camera to the
// distance that frames it with the given margin. Orbit angles and pan are
// kept. Fires "camera changed".
//
// Parameters:
//   - g: frame geometry in controller units
//   - margin: headroom factor, values below 1 are raised to 1
func (s *State) AutoFitFrame(g Geometry, margin float64) {
	s.pivot = framePivot(g)
	s.distance = optimalDistance(g, g.TrackWidth, s.fov, effectiveMargin(margin))
	s.NotifyCameraChanged()
}

// ResetView recenters the pivot while keeping a sane orbit. If yaw, pitch or
// distance lie outside their bounds the call escalates to FullResetView.
// Fires "view reset" then "camera changed".
//
// Parameters:
//   - g: frame geometry in controller units
func (s *State) ResetView(g Geometry) {
	if !s.orbitInBounds() {
		s.FullResetView(g, DefaultTrackWidth)
		return
	}
	s.pivot = framePivot(g)
	s.notifyViewReset()
	s.NotifyCameraChanged()
}

// FullResetView restores the default orbit angles, clears the pan and
// recomputes pivot and distance from the geometry. A track width that is not
// positive and finite is replaced by defaultTrackWidth.
// Fires "view reset" then "camera changed".
//
// Parameters:
//   - g: frame geometry in controller units
//   - defaultTrackWidth: track width used when g.TrackWidth is unusable
func (s *State) FullResetView(g Geometry, defaultTrackWidth float64) {
	trackWidth := common.PositiveOr(g.TrackWidth, defaultTrackWidth, DefaultTrackWidth)

	s.pivot = framePivot(g)
	s.yawDeg = DefaultYawDeg
	s.pitchDeg = DefaultPitchDeg
	s.panX, s.panY = 0, 0
	s.distance = optimalDistance(g, trackWidth, s.fov, DefaultMarginFactor)
	s.notifyViewReset()
	s.NotifyCameraChanged()
}

func (s *State) orbitInBounds() bool {
	return math.Abs(s.yawDeg) < softResetYawLimit &&
		math.Abs(s.pitchDeg) < MaxPitchDeg &&
		s.distance > MinDistance && s.distance < MaxDistance
}

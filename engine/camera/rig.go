package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// Conversion fallbacks used when a factor is zero, negative or not finite.
const (
	DefaultControllerUnitsPerMeter = 1000.0
	DefaultSceneUnitsPerMeter      = 1.0

	// minCameraOffset floors the camera's local Z offset in scene units so the
	// view matrix never degenerates.
	minCameraOffset = 1e-4
)

// Rig converts a Pose in controller units into the scene transform hierarchy
// pivot node -> pan node -> perspective camera. A Rig has no mutable camera
// state of its own; Transform is a pure function of the pose it is given.
type Rig struct {
	controllerUnitsPerMeter float64
	sceneUnitsPerMeter      float64
}

// Node is one level of the rig hierarchy. Position is local to the parent
// node and in scene units; EulerDeg holds (pitch, yaw, roll).
type Node struct {
	Position mgl64.Vec3
	EulerDeg mgl64.Vec3
}

// RigTransform is the scene-space result of Rig.Transform.
type RigTransform struct {
	PivotNode  Node
	PanNode    Node
	CameraNode Node

	FovDeg float64
	Near   float64
	Far    float64

	// World maps camera space to scene space; View is its inverse.
	World mgl64.Mat4
	View  mgl64.Mat4
}

// NewRig creates a Rig with the default conversion factors and applies options.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - *Rig: the newly created rig
func NewRig(options ...RigOption) *Rig {
	r := &Rig{
		controllerUnitsPerMeter: DefaultControllerUnitsPerMeter,
		sceneUnitsPerMeter:      DefaultSceneUnitsPerMeter,
	}
	for _, option := range options {
		option(r)
	}
	r.controllerUnitsPerMeter = common.PositiveOr(r.controllerUnitsPerMeter, DefaultControllerUnitsPerMeter)
	r.sceneUnitsPerMeter = common.PositiveOr(r.sceneUnitsPerMeter, DefaultSceneUnitsPerMeter)
	return r
}

// ControllerUnitsPerMeter returns the host length unit per meter.
func (r *Rig) ControllerUnitsPerMeter() float64 { return r.controllerUnitsPerMeter }
// SceneUnitsPerMeter returns the renderer length unit per meter.
func (r *Rig) SceneUnitsPerMeter() float64 { return r.sceneUnitsPerMeter }

// SetControllerUnitsPerMeter sets the host unit scale. Unusable values fall
// back to DefaultControllerUnitsPerMeter.
func (r *Rig) SetControllerUnitsPerMeter(v float64) {
	r.controllerUnitsPerMeter = common.PositiveOr(v, DefaultControllerUnitsPerMeter)
}

// SetSceneUnitsPerMeter sets the scene unit scale. Unusable values fall back
// to DefaultSceneUnitsPerMeter.
func (r *Rig) SetSceneUnitsPerMeter(v float64) {
	r.sceneUnitsPerMeter = common.PositiveOr(v, DefaultSceneUnitsPerMeter)
}

// ToSceneLength converts a controller-unit length to scene units.
// Non-finite input converts to 0.
//
// Parameters:
//   - value: length in controller units
//
// Returns:
//   - float64: length in scene units
func (r *Rig) ToSceneLength(value float64) float64 {
	if !common.IsFinite(value) {
		return 0
	}
	return value / r.controllerUnitsPerMeter * r.sceneUnitsPerMeter
}

// ToControllerLength is the inverse of ToSceneLength.
func (r *Rig) ToControllerLength(value float64) float64 {
	if !common.IsFinite(value) {
		return 0
	}
	return value / r.sceneUnitsPerMeter * r.controllerUnitsPerMeter
}

// ToSceneVector converts a controller-unit vector component-wise.
// A vector with any non-finite component converts to the zero vector.
//
// Parameters:
//   - v: vector in controller units
//
// Returns:
//   - mgl64.Vec3: vector in scene units
func (r *Rig) ToSceneVector(v mgl64.Vec3) mgl64.Vec3 {
	if !common.IsFinite(v[0]) || !common.IsFinite(v[1]) || !common.IsFinite(v[2]) {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{r.ToSceneLength(v[0]), r.ToSceneLength(v[1]), r.ToSceneLength(v[2])}
}

// Transform derives the scene transform hierarchy for a pose.
//
// Parameters:
//   - p: the camera pose in controller units
//
// Returns:
//   - RigTransform: nodes, clip planes and matrices in scene units
func (r *Rig) Transform(p Pose) RigTransform {
	pivot := r.ToSceneVector(p.Pivot)
	pan := mgl64.Vec3{r.ToSceneLength(p.PanX), r.ToSceneLength(p.PanY), 0}
	offset := math.Max(r.ToSceneLength(p.Distance), minCameraOffset)

	yaw := mgl64.DegToRad(finiteOr(p.YawDeg, 0))
	pitch := mgl64.DegToRad(ClampPitch(p.PitchDeg))

	world := mgl64.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(mgl64.HomogRotate3DY(yaw)).
		Mul4(mgl64.HomogRotate3DX(pitch)).
		Mul4(mgl64.Translate3D(pan[0], pan[1], 0)).
		Mul4(mgl64.Translate3D(0, 0, offset))

	near := math.Max(r.ToSceneLength(p.Near), minCameraOffset)
	far := math.Max(r.ToSceneLength(p.Far), near+r.ToSceneLength(MinClipGap))

	return RigTransform{
		PivotNode: Node{
			Position: pivot,
			EulerDeg: mgl64.Vec3{mgl64.RadToDeg(pitch), mgl64.RadToDeg(yaw), 0},
		},
		PanNode:    Node{Position: pan},
		CameraNode: Node{Position: mgl64.Vec3{0, 0, offset}},
		FovDeg:     clampFov(p.Fov),
		Near:       near,
		Far:        far,
		World:      world,
		View:       world.Inv(),
	}
}

// Position returns the camera's scene-space position.
func (t RigTransform) Position() mgl64.Vec3 {
	return t.World.Col(3).Vec3()
}

// Projection returns the perspective projection for the given aspect ratio.
// Non-positive or non-finite aspect ratios are treated as 1.
func (t RigTransform) Projection(aspect float64) mgl64.Mat4 {
	if !common.IsFinite(aspect) || aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(t.FovDeg), aspect, t.Near, t.Far)
}

// Uniform packs the view-projection matrix and camera position for upload.
//
// Parameters:
//   - aspect: viewport width divided by height
//
// Returns:
//   - GPUCameraUniform: the GPU-aligned camera uniform
func (t RigTransform) Uniform(aspect float64) GPUCameraUniform {
	viewProj := t.Projection(aspect).Mul4(t.View)
	pos := t.Position()

	var u GPUCameraUniform
	for i, v := range viewProj {
		u.ViewProj[i] = float32(v)
	}
	for i := range 3 {
		u.CameraPosition[i] = float32(pos[i])
	}
	return u
}

func finiteOr(v, fallback float64) float64 {
	if common.IsFinite(v) {
		return v
	}
	return fallback
}

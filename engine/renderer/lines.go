package renderer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
)

// LineVertex is one end of a line segment in the line-list vertex buffer.
// Size: 24 bytes.
type LineVertex struct {
	Position [3]float32 // offset  0: scene-space position
	Color    [3]float32 // offset 12: linear RGB
}

// lineVertexSize is the stride of LineVertex in the vertex buffer.
const lineVertexSize = 24

// DefaultGridSpacing is the ground grid spacing in controller units.
const DefaultGridSpacing = 500.0

var (
	frameColor = [3]float32{0.85, 0.85, 0.9}
	gridColor  = [3]float32{0.3, 0.3, 0.33}
	axisX      = [3]float32{0.9, 0.25, 0.2}
	axisY      = [3]float32{0.3, 0.85, 0.3}
	axisZ      = [3]float32{0.25, 0.45, 0.95}
)

// SceneLines builds the line list drawn around the camera target: the frame's
// bounding box, a ground grid under it, and an axis cross at the pivot.
//
// Parameters:
//   - g: frame geometry in controller units
//   - pivot: orbit pivot in controller units
//   - toScene: converts a controller-unit vector to scene units
//
// Returns:
//   - []LineVertex: vertex pairs, one pair per segment
func SceneLines(g camera.Geometry, pivot mgl64.Vec3, toScene func(mgl64.Vec3) mgl64.Vec3) []LineVertex {
	halfW := nonNegative(g.TrackWidth) / 2
	halfL := nonNegative(g.FrameLength) / 2
	top := nonNegative(g.BeamSize) + nonNegative(g.FrameHeight)

	var out []LineVertex
	seg := func(a, b mgl64.Vec3, color [3]float32) {
		out = append(out, vertex(toScene(a), color), vertex(toScene(b), color))
	}

	// Frame box: four bottom edges, four top edges, four uprights.
	corners := [4][2]float64{{-halfW, -halfL}, {halfW, -halfL}, {halfW, halfL}, {-halfW, halfL}}
	for i, c := range corners {
		n := corners[(i+1)%4]
		seg(mgl64.Vec3{c[0], 0, c[1]}, mgl64.Vec3{n[0], 0, n[1]}, frameColor)
		seg(mgl64.Vec3{c[0], top, c[1]}, mgl64.Vec3{n[0], top, n[1]}, frameColor)
		seg(mgl64.Vec3{c[0], 0, c[1]}, mgl64.Vec3{c[0], top, c[1]}, frameColor)
	}

	// Ground grid one frame length beyond each end.
	extent := math.Max(halfL*2, halfW*2)
	steps := int(extent / DefaultGridSpacing)
	for i := -steps; i <= steps; i++ {
		o := float64(i) * DefaultGridSpacing
		seg(mgl64.Vec3{o, 0, -extent}, mgl64.Vec3{o, 0, extent}, gridColor)
		seg(mgl64.Vec3{-extent, 0, o}, mgl64.Vec3{extent, 0, o}, gridColor)
	}

	arm := math.Max(nonNegative(g.BeamSize), 1)
	seg(pivot, pivot.Add(mgl64.Vec3{arm, 0, 0}), axisX)
	seg(pivot, pivot.Add(mgl64.Vec3{0, arm, 0}), axisY)
	seg(pivot, pivot.Add(mgl64.Vec3{0, 0, arm}), axisZ)

	return out
}

// MarshalLines serializes vertices into a little-endian vertex buffer.
//
// Parameters:
//   - vertices: the line list
//
// Returns:
//   - []byte: the serialized buffer
func MarshalLines(vertices []LineVertex) []byte {
	buf := make([]byte, len(vertices)*lineVertexSize)
	for i, v := range vertices {
		base := i * lineVertexSize
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[base+j*4:], math.Float32bits(v.Position[j]))
			binary.LittleEndian.PutUint32(buf[base+12+j*4:], math.Float32bits(v.Color[j]))
		}
	}
	return buf
}

func vertex(p mgl64.Vec3, color [3]float32) LineVertex {
	return LineVertex{
		Position: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])},
		Color:    color,
	}
}

func nonNegative(v float64) float64 {
	if !common.IsFinite(v) || v < 0 {
		return 0
	}
	return v
}

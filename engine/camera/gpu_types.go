package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the WGSL declaration matching GPUCameraUniform.
const GPUCameraUniformSource = `struct CameraUniform {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
    moving: f32,
};
`

// GPUCameraUniform is the GPU-aligned camera uniform buffer.
// Size: 80 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: column-major view-projection matrix
	CameraPosition [3]float32  // offset 64: scene-space camera position
	Moving         float32     // offset 76: 1 while the camera is moving, else 0
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer for upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.Moving))
	return buf
}

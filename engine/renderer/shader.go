package renderer

import "github.com/pneumostabsim/pneumostabsim/engine/camera"

// lineShaderSource draws the line list in a single color per vertex. The
// projection matrix targets a [-1, 1] depth range, so the vertex stage remaps
// z to the [0, 1] range WebGPU clips against. Lines dim while the camera is
// moving.
const lineShaderSource = camera.GPUCameraUniformSource + `
@group(0) @binding(0) var<uniform> camera: CameraUniform;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    var clip = camera.view_proj * vec4<f32>(in.position, 1.0);
    clip.z = (clip.z + clip.w) * 0.5;
    out.clip = clip;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let dim = select(1.0, 0.7, camera.moving > 0.5);
    return vec4<f32>(in.color * dim, 1.0);
}
`

// Package gpu runs the ray-marching field on the GPU via wgpu/hal.
//
// Two render pipelines share one WGSL module: the frame pipeline shades
// the visible image, and the pick pipeline writes per-pixel object
// identifiers to an offscreen texture for single-pixel readback. Both
// draw a full-screen triangle and evaluate the field in the fragment
// stage, reading the scene from the packed uniform layout produced by
// march.EncodeScene.
//
// The device is either owned (Vulkan instance created here) or shared
// from a host application through a gpucontext.DeviceProvider.
package gpu

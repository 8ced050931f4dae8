// Package march is a signed-distance-field scene editor core: a small
// store of implicit primitives (spheres, boxes, tori) combined with CSG
// blending, rendered by sphere tracing and shaded with a single light,
// soft shadows and distance fog.
//
// The package has two render paths. The CPU path (Renderer) marches
// every pixel in parallel row bands and is the reference
// implementation. The GPU path (internal/gpu) runs the same field as a
// WGSL shader and adds an offscreen identifier pass used for picking.
//
// Interaction is built on the identifier pass: Picker resolves a click
// to an object by reading back a single pixel, then projects pointer
// motion onto a camera-facing drag plane to reposition the object.
//
// Scene mutation and evaluation are phase-separated. Scene is mutated
// under its lock; each frame or pick evaluates an immutable Snapshot,
// so edits apply strictly between frames.
package march

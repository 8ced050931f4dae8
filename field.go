package march

import "math"

// groundOffset positions the hardcoded ground plane: its signed distance is
// dot(p, WorldUp) + groundOffset, so the plane sits at y = -groundOffset,
// one unit below the world origin where new primitives appear.
const groundOffset = 1.0

// planeBaseColor is the mid gray used when a primitive smooth-blends into
// the plane. The shading stage replaces it with the procedural checkerboard
// whenever the plane tag wins outright.
var planeBaseColor = RGB{R: 0.5, G: 0.5, B: 0.5}

// Sample is one evaluation of the combined distance field: the signed
// distance to the nearest surface, the tag identifying which surface owns
// the sample, and the blended albedo color at the sample point.
type Sample struct {
	Dist  float64
	Tag   MaterialTag
	Color RGB
}

// Field evaluates the combined signed distance field of a scene snapshot.
// A Field never mutates its snapshot, but it carries per-evaluation scratch
// state, so a single Field must stay on one goroutine: concurrent passes
// each evaluate their own Field over the shared snapshot.
type Field struct {
	snap *Snapshot

	// Smooth blend radii seen so far during one Evaluate call, used by
	// the PropagateNeighbors policy. Reused across calls to avoid
	// allocating in the marching loop.
	smooth []smoothEntry
}

type smoothEntry struct {
	dist float64
	k    float64
}

// NewField creates a field over the given snapshot.
func NewField(snap *Snapshot) *Field {
	return &Field{snap: snap}
}

// Evaluate returns the combined field sample at p.
//
// The accumulator starts from the ground plane and folds in every active
// primitive in storage order: spheres, then boxes, then tori, each in slot
// order. With PropagateNeighbors, a plain-union primitive whose local
// distance lands within an earlier smooth primitive's blend radius is
// joined smoothly as well; the exact rule is |d_candidate - d_smooth| < k,
// taking the largest such k. This reproduces the order-sensitive look of
// blend-radius propagation while keeping it an explicit policy.
func (f *Field) Evaluate(p Vec3) Sample {
	acc := Sample{
		Dist:  p.Dot(WorldUp) + groundOffset,
		Tag:   TagPlane,
		Color: planeBaseColor,
	}
	f.smooth = f.smooth[:0]

	for i := range f.snap.Spheres {
		s := &f.snap.Spheres[i]
		acc = f.combine(acc, s.Distance(p), TagPrimitive(KindSphere, i), s.Color, s.Blend, s.K)
	}
	for i := range f.snap.Boxes {
		b := &f.snap.Boxes[i]
		acc = f.combine(acc, b.Distance(p), TagPrimitive(KindBox, i), b.Color, b.Blend, b.K)
	}
	for i := range f.snap.Tori {
		t := &f.snap.Tori[i]
		acc = f.combine(acc, t.Distance(p), TagPrimitive(KindTorus, i), t.Color, t.Blend, t.K)
	}
	return acc
}

// combine folds one primitive's local distance into the accumulator
// according to its blend mode.
func (f *Field) combine(acc Sample, d float64, tag MaterialTag, color RGB, mode BlendMode, k float64) Sample {
	switch mode {
	case BlendSmoothUnion:
		f.smooth = append(f.smooth, smoothEntry{dist: d, k: k})
		return smoothJoin(acc, d, tag, color, k)

	case BlendSubtract:
		// The candidate carves a cavity: the surviving surface keeps the
		// accumulator's identity and color.
		if nd := math.Max(-d, acc.Dist); nd != acc.Dist {
			acc.Dist = nd
		}
		return acc

	case BlendIntersect:
		if d > acc.Dist {
			return Sample{Dist: d, Tag: tag, Color: color}
		}
		return acc

	case BlendXOR:
		// max(min(a,b), -max(a,b)) keeps the non-overlapping regions.
		nd := math.Max(math.Min(acc.Dist, d), -math.Max(acc.Dist, d))
		if d < acc.Dist {
			return Sample{Dist: nd, Tag: tag, Color: color}
		}
		acc.Dist = nd
		return acc

	default: // BlendUnion
		if f.snap.Propagation == PropagateNeighbors {
			if nk, ok := f.nearbySmoothK(d); ok {
				return smoothJoin(acc, d, tag, color, nk)
			}
		}
		if d < acc.Dist {
			return Sample{Dist: d, Tag: tag, Color: color}
		}
		return acc
	}
}

// smoothJoin merges a candidate into the accumulator with the polynomial
// smooth minimum. The tag follows whichever side dominates before the
// blend; the color is interpolated with the blend factor so that sampling
// along any path through the blend region stays continuous.
func smoothJoin(acc Sample, d float64, tag MaterialTag, color RGB, k float64) Sample {
	nd, h := smoothMin(d, acc.Dist, k)
	out := Sample{
		Dist:  nd,
		Color: acc.Color.Lerp(color, h),
	}
	if d < acc.Dist {
		out.Tag = tag
	} else {
		out.Tag = acc.Tag
	}
	return out
}

// nearbySmoothK returns the largest blend radius among previously seen
// smooth primitives whose local distance is within that radius of the
// candidate's, and whether any qualified.
func (f *Field) nearbySmoothK(d float64) (float64, bool) {
	best := 0.0
	found := false
	for _, e := range f.smooth {
		if math.Abs(d-e.dist) < e.k && e.k > best {
			best = e.k
			found = true
		}
	}
	return best, found
}

package march

import (
	"errors"
	"fmt"
	"sync"
)

// MaxSlots is the fixed capacity of each primitive sequence. The GPU
// evaluation stage reads statically sized arrays, so the scene never holds
// more than MaxSlots primitives of one type.
const MaxSlots = 10

// Scene mutation errors.
var (
	// ErrSceneFull is returned when adding a primitive to a type whose
	// slots are all occupied.
	ErrSceneFull = errors.New("march: primitive capacity reached")

	// ErrInvalidSlot is returned for a slot index outside the active range.
	ErrInvalidSlot = errors.New("march: invalid slot index")

	// ErrInvalidBlend is returned for a non-positive smooth blend strength.
	ErrInvalidBlend = errors.New("march: blend strength must be positive")
)

// SmoothPropagation selects how far a smooth-union primitive's blend
// reaches during field evaluation.
//
// The historical behavior of this kind of editor is order-sensitive: a
// smooth primitive's blend radius also softens unrelated primitives that
// happen to be evaluated after it. That is surprising enough that the
// policy is explicit here rather than implied by storage order.
type SmoothPropagation int

const (
	// PropagateLocal applies a primitive's smooth blend only to the field
	// accumulated before it. Plain-union primitives evaluated later join
	// with a hard minimum. This is the default.
	PropagateLocal SmoothPropagation = iota

	// PropagateNeighbors additionally smooths plain-union primitives that
	// land within a previously seen smooth primitive's blend radius, which
	// reproduces the storage-order-dependent look of the original scheme.
	PropagateNeighbors
)

// Scene owns the authoritative list of primitives. It is the single source
// of truth: editing operations mutate it, and every evaluation pass reads a
// Snapshot taken between frames.
//
// All methods are safe for concurrent use. The evaluation side never locks:
// it works on snapshots, so mutation and an in-flight render pass can never
// observe each other (see Snapshot).
type Scene struct {
	mu      sync.Mutex
	spheres []Sphere
	boxes   []Box
	tori    []Torus

	propagation SmoothPropagation

	onChanged []func()
}

// NewScene creates an empty scene: zero primitives of each type.
// The ground plane is not a stored primitive; it is always present and
// non-selectable.
func NewScene() *Scene {
	return &Scene{}
}

// OnChanged registers a callback invoked after every successful mutation.
// Callbacks run synchronously with the scene lock released.
func (s *Scene) OnChanged(fn func()) {
	s.mu.Lock()
	s.onChanged = append(s.onChanged, fn)
	s.mu.Unlock()
}

func (s *Scene) notify() {
	s.mu.Lock()
	cbs := s.onChanged
	s.mu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

// SetPropagation sets the smooth blend propagation policy.
func (s *Scene) SetPropagation(p SmoothPropagation) {
	s.mu.Lock()
	s.propagation = p
	s.mu.Unlock()
	s.notify()
}

// validateBlend rejects configurations that would destabilize the smooth
// minimum before they can reach the marching stage.
func validateBlend(mode BlendMode, k float64) error {
	if mode == BlendSmoothUnion && k <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidBlend, k)
	}
	return nil
}

// AddSphere appends a sphere and returns its slot index.
func (s *Scene) AddSphere(sp Sphere) (int, error) {
	if err := validateBlend(sp.Blend, sp.K); err != nil {
		return 0, err
	}
	s.mu.Lock()
	if len(s.spheres) >= MaxSlots {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: spheres", ErrSceneFull)
	}
	s.spheres = append(s.spheres, sp)
	slot := len(s.spheres) - 1
	s.mu.Unlock()
	s.notify()
	return slot, nil
}

// AddBox appends a box and returns its slot index.
func (s *Scene) AddBox(b Box) (int, error) {
	if err := validateBlend(b.Blend, b.K); err != nil {
		return 0, err
	}
	s.mu.Lock()
	if len(s.boxes) >= MaxSlots {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: boxes", ErrSceneFull)
	}
	s.boxes = append(s.boxes, b)
	slot := len(s.boxes) - 1
	s.mu.Unlock()
	s.notify()
	return slot, nil
}

// AddTorus appends a torus and returns its slot index.
func (s *Scene) AddTorus(t Torus) (int, error) {
	if err := validateBlend(t.Blend, t.K); err != nil {
		return 0, err
	}
	s.mu.Lock()
	if len(s.tori) >= MaxSlots {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: tori", ErrSceneFull)
	}
	s.tori = append(s.tori, t)
	slot := len(s.tori) - 1
	s.mu.Unlock()
	s.notify()
	return slot, nil
}

// Remove deletes the primitive at (kind, slot) and compacts the sequence,
// preserving the invariant that active slots are a contiguous prefix:
// the marching loop only visits indices below the count.
func (s *Scene) Remove(kind PrimitiveKind, slot int) error {
	s.mu.Lock()
	var err error
	switch kind {
	case KindSphere:
		if slot < 0 || slot >= len(s.spheres) {
			err = ErrInvalidSlot
		} else {
			s.spheres = append(s.spheres[:slot], s.spheres[slot+1:]...)
		}
	case KindBox:
		if slot < 0 || slot >= len(s.boxes) {
			err = ErrInvalidSlot
		} else {
			s.boxes = append(s.boxes[:slot], s.boxes[slot+1:]...)
		}
	case KindTorus:
		if slot < 0 || slot >= len(s.tori) {
			err = ErrInvalidSlot
		} else {
			s.tori = append(s.tori[:slot], s.tori[slot+1:]...)
		}
	default:
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("remove %s[%d]: %w", kind, slot, err)
	}
	s.notify()
	return nil
}

// Count returns the number of active primitives of the given kind.
func (s *Scene) Count(kind PrimitiveKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case KindSphere:
		return len(s.spheres)
	case KindBox:
		return len(s.boxes)
	case KindTorus:
		return len(s.tori)
	}
	return 0
}

// Center returns the center position of the primitive at (kind, slot).
func (s *Scene) Center(kind PrimitiveKind, slot int) (Vec3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case KindSphere:
		if slot >= 0 && slot < len(s.spheres) {
			return s.spheres[slot].Center, nil
		}
	case KindBox:
		if slot >= 0 && slot < len(s.boxes) {
			return s.boxes[slot].Center, nil
		}
	case KindTorus:
		if slot >= 0 && slot < len(s.tori) {
			return s.tori[slot].Center, nil
		}
	}
	return Vec3{}, fmt.Errorf("center of %s[%d]: %w", kind, slot, ErrInvalidSlot)
}

// SetCenter moves the primitive at (kind, slot) to a new center position.
func (s *Scene) SetCenter(kind PrimitiveKind, slot int, center Vec3) error {
	s.mu.Lock()
	var err error
	switch kind {
	case KindSphere:
		if slot >= 0 && slot < len(s.spheres) {
			s.spheres[slot].Center = center
		} else {
			err = ErrInvalidSlot
		}
	case KindBox:
		if slot >= 0 && slot < len(s.boxes) {
			s.boxes[slot].Center = center
		} else {
			err = ErrInvalidSlot
		}
	case KindTorus:
		if slot >= 0 && slot < len(s.tori) {
			s.tori[slot].Center = center
		} else {
			err = ErrInvalidSlot
		}
	default:
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set center of %s[%d]: %w", kind, slot, err)
	}
	s.notify()
	return nil
}

// SetColor changes the primitive's albedo color.
func (s *Scene) SetColor(kind PrimitiveKind, slot int, c RGB) error {
	s.mu.Lock()
	var err error
	switch kind {
	case KindSphere:
		if slot >= 0 && slot < len(s.spheres) {
			s.spheres[slot].Color = c
		} else {
			err = ErrInvalidSlot
		}
	case KindBox:
		if slot >= 0 && slot < len(s.boxes) {
			s.boxes[slot].Color = c
		} else {
			err = ErrInvalidSlot
		}
	case KindTorus:
		if slot >= 0 && slot < len(s.tori) {
			s.tori[slot].Color = c
		} else {
			err = ErrInvalidSlot
		}
	default:
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set color of %s[%d]: %w", kind, slot, err)
	}
	s.notify()
	return nil
}

// SetBlend changes the primitive's CSG blend mode and strength.
// A non-positive strength with BlendSmoothUnion is rejected.
func (s *Scene) SetBlend(kind PrimitiveKind, slot int, mode BlendMode, k float64) error {
	if err := validateBlend(mode, k); err != nil {
		return err
	}
	s.mu.Lock()
	var err error
	switch kind {
	case KindSphere:
		if slot >= 0 && slot < len(s.spheres) {
			s.spheres[slot].Blend, s.spheres[slot].K = mode, k
		} else {
			err = ErrInvalidSlot
		}
	case KindBox:
		if slot >= 0 && slot < len(s.boxes) {
			s.boxes[slot].Blend, s.boxes[slot].K = mode, k
		} else {
			err = ErrInvalidSlot
		}
	case KindTorus:
		if slot >= 0 && slot < len(s.tori) {
			s.tori[slot].Blend, s.tori[slot].K = mode, k
		} else {
			err = ErrInvalidSlot
		}
	default:
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set blend of %s[%d]: %w", kind, slot, err)
	}
	s.notify()
	return nil
}

// SetSphereRadius changes a sphere's radius.
func (s *Scene) SetSphereRadius(slot int, r float64) error {
	s.mu.Lock()
	var err error
	if slot >= 0 && slot < len(s.spheres) {
		s.spheres[slot].Radius = r
	} else {
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set radius of Sphere[%d]: %w", slot, err)
	}
	s.notify()
	return nil
}

// SetBoxHalf changes a box's half-extents.
func (s *Scene) SetBoxHalf(slot int, half Vec3) error {
	s.mu.Lock()
	var err error
	if slot >= 0 && slot < len(s.boxes) {
		s.boxes[slot].Half = half
	} else {
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set half-extents of Box[%d]: %w", slot, err)
	}
	s.notify()
	return nil
}

// SetTorusRadii changes a torus's major and minor radii.
func (s *Scene) SetTorusRadii(slot int, major, minor float64) error {
	s.mu.Lock()
	var err error
	if slot >= 0 && slot < len(s.tori) {
		s.tori[slot].MajorR, s.tori[slot].MinorR = major, minor
	} else {
		err = ErrInvalidSlot
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set radii of Torus[%d]: %w", slot, err)
	}
	s.notify()
	return nil
}

// Snapshot is a read-only copy of the scene contents, taken between frames
// and consumed by the evaluation side without locking. A render or pick
// pass holds one snapshot for its whole duration, so scene edits applied
// while the pass is in flight cannot tear it.
type Snapshot struct {
	Spheres     []Sphere
	Boxes       []Box
	Tori        []Torus
	Propagation SmoothPropagation
}

// Snapshot copies the current scene contents.
func (s *Scene) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &Snapshot{
		Spheres:     make([]Sphere, len(s.spheres)),
		Boxes:       make([]Box, len(s.boxes)),
		Tori:        make([]Torus, len(s.tori)),
		Propagation: s.propagation,
	}
	copy(snap.Spheres, s.spheres)
	copy(snap.Boxes, s.boxes)
	copy(snap.Tori, s.tori)
	return snap
}

package march

import (
	"math"
	"sync"
)

// DefaultDragSensitivity scales screen-pixel motion into world units.
// The effective step is sensitivity times camera distance, so drag speed
// stays constant in screen terms as the camera zooms.
const DefaultDragSensitivity = 0.005

// dragThreshold is the accumulated pointer motion, in pixels, before a
// selection turns into a drag. Keeps plain clicks from nudging objects.
const dragThreshold = 3.0

// PickState is the interaction state of the Picker.
type PickState int

const (
	// PickIdle means nothing is selected.
	PickIdle PickState = iota
	// PickSelected means an object is selected but not being moved.
	PickSelected
	// PickDragging means pointer motion is repositioning the selection.
	PickDragging
)

func (s PickState) String() string {
	switch s {
	case PickIdle:
		return "idle"
	case PickSelected:
		return "selected"
	case PickDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// IDReader resolves the object identifier under a viewport pixel. The
// GPU identifier pass and the CPU IDMap both satisfy it.
type IDReader interface {
	IDAt(x, y int) (ObjectID, error)
}

// IDAt implements IDReader. It never fails; out-of-bounds coordinates
// are clamped.
func (m *IDMap) IDAt(x, y int) (ObjectID, error) {
	return m.At(x, y), nil
}

// Selection names a picked primitive by kind and slot.
type Selection struct {
	Kind PrimitiveKind
	Slot int
}

// DragPlane is the world-space plane pointer motion is projected onto:
// anchored at the object's center at selection time, facing the camera.
type DragPlane struct {
	Point  Vec3
	Normal Vec3
}

// Picker turns screen coordinates into object selections and pointer
// motion into world-space repositioning.
//
// State machine: Idle -> Selected -> Dragging. A pick of empty space or
// the ground plane returns to Idle. Each Pick supersedes any still
// unresolved earlier pick; a superseded result is discarded, not
// applied.
type Picker struct {
	mu     sync.Mutex
	scene  *Scene
	camera *Camera
	reader IDReader

	// Sensitivity converts pixels of pointer motion into world units
	// per unit of camera distance.
	Sensitivity float64

	state      PickState
	sel        Selection
	plane      DragPlane
	pending    float64 // motion accumulated while below dragThreshold
	generation uint64

	onSelected   func(Selection)
	onDeselected func()
	onMoved      func(Selection, Vec3)
}

// NewPicker creates a picker over the given scene, camera and
// identifier source.
func NewPicker(scene *Scene, camera *Camera, reader IDReader) *Picker {
	return &Picker{
		scene:       scene,
		camera:      camera,
		reader:      reader,
		Sensitivity: DefaultDragSensitivity,
	}
}

// OnObjectSelected registers fn to run after a pick lands on an object.
func (p *Picker) OnObjectSelected(fn func(Selection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSelected = fn
}

// OnObjectDeselected registers fn to run when the selection is cleared.
func (p *Picker) OnObjectDeselected(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDeselected = fn
}

// OnObjectMoved registers fn to run after each drag step, with the
// object's new center.
func (p *Picker) OnObjectMoved(fn func(Selection, Vec3)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onMoved = fn
}

// State returns the current interaction state.
func (p *Picker) State() PickState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Selected returns the current selection, if any.
func (p *Picker) Selected() (Selection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel, p.state != PickIdle
}

// Plane returns the active drag plane. Valid only while a selection
// exists.
func (p *Picker) Plane() DragPlane {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plane
}

// Pick resolves the object under the given pixel and updates the
// selection. Picking empty space or the ground plane deselects. The
// identifier read may block on GPU readback; if a newer Pick is issued
// meanwhile, this one's result is discarded.
func (p *Picker) Pick(x, y int) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	reader := p.reader
	p.mu.Unlock()

	id, err := reader.IDAt(x, y)
	if err != nil {
		return err
	}
	p.resolve(gen, id)
	return nil
}

// resolve applies a completed pick unless a newer one superseded it.
func (p *Picker) resolve(gen uint64, id ObjectID) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		Logger().Debug("pick superseded", "generation", gen, "id", id)
		return
	}
	Logger().Debug("pick resolved", "generation", gen, "id", id)

	kind, slot, ok := DecodeID(id)
	if !ok {
		wasSelected := p.state != PickIdle
		p.state = PickIdle
		p.sel = Selection{}
		notify := p.onDeselected
		p.mu.Unlock()
		if wasSelected && notify != nil {
			notify()
		}
		return
	}

	center, err := p.scene.Center(kind, slot)
	if err != nil {
		// Slot vanished between the pick pass and the readback.
		p.mu.Unlock()
		return
	}
	p.state = PickSelected
	p.sel = Selection{Kind: kind, Slot: slot}
	p.plane = DragPlane{Point: center, Normal: p.camera.Forward()}
	p.pending = 0
	notify := p.onSelected
	sel := p.sel
	p.mu.Unlock()
	if notify != nil {
		notify(sel)
	}
}

// Deselect clears the selection and returns to Idle.
func (p *Picker) Deselect() {
	p.mu.Lock()
	wasSelected := p.state != PickIdle
	p.state = PickIdle
	p.sel = Selection{}
	notify := p.onDeselected
	p.mu.Unlock()
	if wasSelected && notify != nil {
		notify()
	}
}

// UpdateDrag feeds one pointer motion delta, in screen pixels. While
// Selected, motion accumulates until it passes the drag threshold; from
// then on each delta moves the object along the camera-right and
// world-up axes, scaled by Sensitivity times camera distance.
func (p *Picker) UpdateDrag(dx, dy float64) error {
	p.mu.Lock()

	switch p.state {
	case PickIdle:
		p.mu.Unlock()
		return nil
	case PickSelected:
		p.pending += math.Hypot(dx, dy)
		if p.pending < dragThreshold {
			p.mu.Unlock()
			return nil
		}
		p.state = PickDragging
	}

	sel := p.sel
	scale := p.Sensitivity * p.camera.Distance
	right := p.camera.FlatRight()
	notify := p.onMoved
	p.mu.Unlock()

	center, err := p.scene.Center(sel.Kind, sel.Slot)
	if err != nil {
		return err
	}
	pos := center.Add(right.Mul(dx * scale)).Sub(WorldUp.Mul(dy * scale))
	if err := p.scene.SetCenter(sel.Kind, sel.Slot, pos); err != nil {
		return err
	}
	if notify != nil {
		notify(sel, pos)
	}
	return nil
}

// EndDrag finishes a drag, keeping the object selected.
func (p *Picker) EndDrag() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PickDragging {
		p.state = PickSelected
	}
	p.pending = 0
}

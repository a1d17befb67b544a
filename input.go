package boxmark

import (
	"fmt"
	"math"
)

const defaultDragDeadZone = 4.0 // pixels

// pointerState is the press/drag state of the single editor pointer.
// Positions are in screen space; world positions are derived through the
// current viewport, which may change between events.
type pointerState struct {
	down     bool
	start    Vec2
	last     Vec2
	target   Target
	consumed bool // pointer-down was swallowed (delete affordance)
	button   MouseButton
}

// --- Hit testing ---

// HitTest finds the topmost target under a world point. Order, top first:
// the selected shape's delete affordance and handles (edit mode only), shapes in reverse
// insertion order, the background image, the empty background.
func (e *Editor) HitTest(world Vec2) Target {
	scale := e.Viewport().Scale
	if id, ok := e.selection.ID(); ok && e.editable {
		if i := e.store.Index(id); i >= 0 {
			if DeleteAffordanceRect(e.deleteAffordance(i)).Contains(world.X, world.Y) {
				return Target{Kind: TargetDeleteAffordance, ID: id, Name: "delete"}
			}
			if a := HitAnchor(e.liveBox(i), world, scale); a != AnchorNone {
				return Target{Kind: TargetAnchor, ID: id, Name: a.Name(), Anchor: a}
			}
		}
	}
	for i := e.store.Len() - 1; i >= 0; i-- {
		if e.liveBox(i).Contains(world) {
			return Target{Kind: TargetShape, ID: e.store.shapes[i].ID}
		}
	}
	if e.background.Contains(world) {
		return Target{Kind: TargetImage, Name: "image"}
	}
	return Target{Kind: TargetBackground}
}

// --- Pointer processing ---

// LastPointer returns the most recent screen pointer position and whether
// any pointer event has been seen.
func (e *Editor) LastPointer() (Vec2, bool) {
	return e.lastPointer, e.hasPointer
}

// HandleWheel zooms around the last known pointer position. Before any
// pointer event there is no anchor; the call is a no-op returning
// ErrNoPointer.
func (e *Editor) HandleWheel(deltaY float64) error {
	if deltaY == 0 {
		return nil
	}
	if !e.hasPointer {
		logf("wheel zoom ignored: %v", ErrNoPointer)
		return ErrNoPointer
	}
	return e.Apply(ZoomAtPointer{Pointer: e.lastPointer, Delta: deltaY})
}

// HandlePointer runs the pointer state machine for one sample of the pointer
// at a screen position. Call it every frame with the current button state.
func (e *Editor) HandlePointer(screen Vec2, pressed bool, button MouseButton) {
	e.hasPointer = true
	e.lastPointer = screen
	ps := &e.pointer
	world := e.Viewport().ScreenToWorld(screen)

	switch {
	case pressed && !ps.down:
		e.pointerDown(ps, screen, world, button)
	case !pressed && ps.down:
		if screen != ps.last {
			e.pointerDrag(ps, screen, world)
		}
		e.pointerUp(ps, screen, world)
	case pressed && ps.down:
		if screen != ps.last {
			e.pointerDrag(ps, screen, world)
		}
		ps.last = screen
	default:
		if screen != ps.last {
			e.updateHover(e.HitTest(world))
			ps.last = screen
		}
	}
}

func (e *Editor) pointerDown(ps *pointerState, screen, world Vec2, button MouseButton) {
	target := e.HitTest(world)
	*ps = pointerState{
		down:   true,
		start:  screen,
		last:   screen,
		target: target,
		button: button,
	}
	e.updateHover(target)

	if target.Kind == TargetDeleteAffordance {
		// Swallowed: no deselect, no pan, no click.
		ps.consumed = true
		_ = e.Apply(RemoveShape{ID: target.ID})
		return
	}

	_ = e.Apply(Deselect{Target: target})

	switch target.Kind {
	case TargetBackground, TargetImage:
		_ = e.Apply(PanStart{Pointer: screen, Target: target})
	case TargetAnchor:
		if err := e.beginTransform(target.ID, target.Anchor); err != nil {
			e.debugf("transform not started: %v", err)
		}
	case TargetShape:
		if e.editable && e.selection.IsSelected(target.ID) {
			e.gesture = gesture{kind: gestureArmed, id: target.ID}
		}
	}
}

func (e *Editor) pointerDrag(ps *pointerState, screen, world Vec2) {
	if ps.consumed {
		return
	}
	if e.view.Panning() {
		_ = e.Apply(PanMove{Pointer: screen})
		return
	}
	switch e.gesture.kind {
	case gestureArmed:
		d := screen.Sub(ps.start)
		if math.Hypot(d.X, d.Y) <= e.dragDeadZone {
			return
		}
		if err := e.beginDrag(e.gesture.id); err != nil {
			e.debugf("drag not started: %v", err)
			e.gesture = gesture{}
			return
		}
		// Catch up on the movement swallowed by the dead zone.
		e.dragMove(world.Sub(e.Viewport().ScreenToWorld(ps.start)))
	case gestureDrag:
		e.dragMove(world.Sub(e.Viewport().ScreenToWorld(ps.last)))
	case gestureTransform:
		e.gesture.transformer.MoveTo(world)
	}
}

func (e *Editor) pointerUp(ps *pointerState, screen, world Vec2) {
	wasConsumed := ps.consumed
	target := ps.target
	clicked := false

	switch e.gesture.kind {
	case gestureDrag:
		_ = e.Apply(ShapeDragCommit{ID: e.gesture.id, Handle: e.gesture.node})
	case gestureTransform:
		_ = e.Apply(ShapeTransformCommit{ID: e.gesture.id, Handle: e.gesture.node})
	default:
		clicked = !wasConsumed
	}
	e.gesture = gesture{}
	if e.view.Panning() {
		_ = e.Apply(PanEnd{})
	}

	if clicked && target.Kind == TargetShape {
		if up := e.HitTest(world); up.Kind == TargetShape && up.ID == target.ID {
			_ = e.Apply(SelectShape{ID: target.ID})
		}
	}

	*ps = pointerState{last: screen}
	e.updateHover(e.HitTest(world))
}

// updateHover tracks the shape under the pointer for the hover label.
func (e *Editor) updateHover(t Target) {
	switch t.Kind {
	case TargetShape:
		e.hoverID = t.ID
	case TargetAnchor, TargetDeleteAffordance:
		// Still over the selected shape's chrome.
		e.hoverID = t.ID
	default:
		e.hoverID = ""
	}
}

// --- Shape gestures ---

// beginDrag starts a drag-move on the selected shape id.
func (e *Editor) beginDrag(id string) error {
	if !e.editable {
		return ErrNotEditable
	}
	if !e.selection.IsSelected(id) {
		return fmt.Errorf("drag %q: not selected", id)
	}
	r, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("drag %q: %w", id, ErrShapeNotFound)
	}
	e.gesture = gesture{kind: gestureDrag, id: id, node: NewShapeNode(r)}
	e.debugf("drag start %s", id)
	return nil
}

// dragMove moves the live node by a world delta. The delete affordance and
// hover label follow the node; nothing is committed.
func (e *Editor) dragMove(d Vec2) {
	n := e.gesture.node
	if e.gesture.kind != gestureDrag || n == nil {
		return
	}
	n.SetPosition(n.Position().Add(d))
}

// beginTransform starts a resize/rotate gesture through anchor.
func (e *Editor) beginTransform(id string, anchor Anchor) error {
	if !e.editable {
		return ErrNotEditable
	}
	if !e.selection.IsSelected(id) {
		return fmt.Errorf("transform %q: not selected", id)
	}
	r, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("transform %q: %w", id, ErrShapeNotFound)
	}
	node := NewShapeNode(r)
	e.gesture = gesture{
		kind:        gestureTransform,
		id:          id,
		node:        node,
		transformer: NewTransformer(node, anchor, e.cfg.Shapes.MinSize),
	}
	e.debugf("transform start %s via %s", id, anchor)
	return nil
}

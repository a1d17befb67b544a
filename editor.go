package boxmark

import (
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/tanema/gween/ease"
)

// gestureKind is the shape gesture currently in progress.
type gestureKind uint8

const (
	gestureNone      gestureKind = iota
	gestureArmed                 // pressed on the selected shape, inside the dead zone
	gestureDrag                  // moving the selected shape
	gestureTransform             // resizing or rotating through a handle
)

// gesture holds the transient state of one shape gesture. The node is the
// only place live geometry exists and it is dropped on commit.
type gesture struct {
	kind        gestureKind
	id          string
	node        *ShapeNode
	transformer *Transformer
}

// Editor is the top-level object that owns the shape store, the selection,
// the viewport, the background and the pointer state. All methods must be
// called from a single goroutine; see Session for handing work to it.
type Editor struct {
	cfg        Config
	store      *ShapeStore
	selection  *Selection
	view       *ViewportController
	background *Background

	editable    bool
	highlighted string
	hoverID     string
	debug       bool

	stroke, alert, highlight Color

	gesture gesture

	// Input state
	pointer      pointerState
	hasPointer   bool
	lastPointer  Vec2
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent

	// Scripted input and queued raster snapshots
	runner        *ScriptRunner
	capturer      Capturer
	snapshotQueue []string
}

// NewEditor creates an editor in editable mode with an empty store.
func NewEditor(cfg Config) *Editor {
	store := NewShapeStore()
	e := &Editor{
		cfg:          cfg,
		store:        store,
		selection:    NewSelection(store),
		view:         NewViewportController(cfg.Canvas.ZoomFactor),
		editable:     true,
		dragDeadZone: cfg.Input.DragDeadZone,
		debug:        cfg.Debug,
		capturer:     Rasterizer{PixelRatio: cfg.Export.PixelRatio},
	}
	e.stroke, e.alert, e.highlight = cfg.palette()
	store.OnChange(e.onStoreChange)
	return e
}

// onStoreChange drops gesture, hover and highlight ids the store no longer
// holds.
func (e *Editor) onStoreChange(change StoreChange, id string) {
	if change != ChangeRemove && change != ChangeReplace {
		return
	}
	if e.gesture.kind != gestureNone && !e.store.Has(e.gesture.id) {
		e.gesture = gesture{}
	}
	if e.hoverID != "" && !e.store.Has(e.hoverID) {
		e.hoverID = ""
	}
	if e.highlighted != "" && !e.store.Has(e.highlighted) {
		e.highlighted = ""
	}
}

// Config returns the editor configuration.
func (e *Editor) Config() Config { return e.cfg }

// Store returns the shape store.
func (e *Editor) Store() *ShapeStore { return e.store }

// Selection returns the selection controller.
func (e *Editor) Selection() *Selection { return e.selection }

// Viewport returns the current viewport.
func (e *Editor) Viewport() Viewport { return e.view.Viewport() }

// ViewportController returns the viewport controller.
func (e *Editor) ViewportController() *ViewportController { return e.view }

// Background returns the background image, or nil.
func (e *Editor) Background() *Background { return e.background }

// SetBackground replaces the background image. Nil clears it.
func (e *Editor) SetBackground(bg *Background) {
	e.background = bg
}

// LoadBackground decodes r and installs it as the background.
func (e *Editor) LoadBackground(r io.Reader) error {
	bg, err := LoadBackground(r, e.cfg.Canvas.Width, e.cfg.Canvas.Height)
	if err != nil {
		return err
	}
	e.background = bg
	b := bg.Bounds
	logf("background %s %dx%d placed at (%.1f, %.1f) %.1fx%.1f", bg.Format,
		bg.Image.Bounds().Dx(), bg.Image.Bounds().Dy(), b.X, b.Y, b.Width, b.Height)
	return nil
}

// Editable reports whether edit mode is on.
func (e *Editor) Editable() bool { return e.editable }

// Highlighted returns the highlighted id, empty when none.
func (e *Editor) Highlighted() string { return e.highlighted }

// Hovered returns the id of the shape under the pointer, empty when none.
func (e *Editor) Hovered() string { return e.hoverID }

// SetCapturer replaces the raster capturer used by queued snapshots.
func (e *Editor) SetCapturer(c Capturer) {
	if c != nil {
		e.capturer = c
	}
}

// SetDragDeadZone sets the minimum screen movement before a shape press
// becomes a drag.
func (e *Editor) SetDragDeadZone(pixels float64) {
	e.dragDeadZone = pixels
}

// Apply runs a command against the editor state.
func (e *Editor) Apply(cmd Command) error {
	err := cmd.apply(e)
	if e.debug {
		name := reflect.TypeOf(cmd).Name()
		if err != nil {
			e.debugf("%s: %v", name, err)
		} else {
			e.debugf("%s", name)
		}
		e.debugCheckInvariants(name)
	}
	return err
}

// AddRectangle adds a default-sized rectangle centered in the visible canvas
// and returns it. The id follows the "rect"+(count+1) scheme; a collision is
// reported as ErrDuplicateID.
func (e *Editor) AddRectangle() (Rectangle, error) {
	size := e.cfg.Shapes.DefaultSize
	center := e.Viewport().ScreenToWorld(Vec2{e.cfg.Canvas.Width / 2, e.cfg.Canvas.Height / 2})
	r := Rectangle{
		ID:     e.store.NextID(),
		X:      center.X - size/2,
		Y:      center.Y - size/2,
		Width:  size,
		Height: size,
	}
	if err := e.store.Add(r); err != nil {
		logf("add rectangle: %v", err)
		return Rectangle{}, fmt.Errorf("boxmark: %w", err)
	}
	return r, nil
}

// RemoveShape removes id from the store. Absent ids are ignored.
func (e *Editor) RemoveShape(id string) bool {
	return e.store.Remove(id)
}

// ToggleEditable flips edit mode and returns the new value. Turning edit
// mode off abandons any shape gesture without committing it.
func (e *Editor) ToggleEditable() bool {
	e.editable = !e.editable
	if !e.editable {
		e.gesture = gesture{}
	}
	return e.editable
}

// MarkAlerts sets the alert flag on every odd-indexed rectangle.
func (e *Editor) MarkAlerts() {
	// By position: duplicate ids from an import must not redirect the flag
	// to an earlier entry.
	for i := 1; i < e.store.Len(); i += 2 {
		_, _ = e.store.UpdateAt(i, ShapePatch{Alert: Bool(true)})
	}
}

// Highlight marks id for emphasis in the list and on the canvas.
func (e *Editor) Highlight(id string) error {
	if !e.store.Has(id) {
		return fmt.Errorf("highlight %q: %w", id, ErrShapeNotFound)
	}
	e.highlighted = id
	return nil
}

// ResetView animates the viewport back to scale 1 at the origin.
func (e *Editor) ResetView() error {
	return e.view.AnimateTo(IdentityViewport, float32(e.cfg.Input.ResetViewSeconds), ease.OutCubic)
}

// Update advances per-frame state: the input script, viewport animation and
// queued snapshots. dt is in seconds.
func (e *Editor) Update(dt float32) {
	if e.runner != nil {
		e.runner.step(e)
	}
	e.view.Update(dt)
	e.flushSnapshots()
}

// ListEntry is one line of the shape list panel.
type ListEntry struct {
	ID          string
	Primary     string
	Secondary   string
	Alert       bool
	Highlighted bool
}

// ListEntries describes every rectangle for the list panel, in store order.
func (e *Editor) ListEntries() []ListEntry {
	out := make([]ListEntry, 0, e.store.Len())
	for _, r := range e.store.shapes {
		out = append(out, ListEntry{
			ID:      r.ID,
			Primary: "ID: " + r.ID,
			Secondary: "Position: (" + formatNumber(r.X) + ", " + formatNumber(r.Y) + "), Size: " +
				formatNumber(r.Width) + "x" + formatNumber(r.Height),
			Alert:       r.Alerted(),
			Highlighted: r.ID == e.highlighted,
		})
	}
	return out
}

// formatNumber prints v with the shortest representation that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// strokeFor picks the stroke color for r.
func (e *Editor) strokeFor(r Rectangle) Color {
	switch {
	case r.ID == e.highlighted:
		return e.highlight
	case r.Alerted():
		return e.alert
	default:
		return e.stroke
	}
}

// liveBox returns the geometry to display for the shape at index i: the
// gesture node when one is active on it, the stored record otherwise.
func (e *Editor) liveBox(i int) Box {
	r := e.store.shapes[i]
	if e.gesture.node != nil && e.gesture.id == r.ID {
		return e.gesture.node.Box()
	}
	return BoxOf(r)
}

// deleteAffordance returns the remove button position for the selected
// shape. During a drag it follows the live node.
func (e *Editor) deleteAffordance(i int) Vec2 {
	r := e.store.shapes[i]
	if n := e.gesture.node; n != nil && e.gesture.id == r.ID && e.gesture.kind == gestureDrag {
		p := n.Position()
		return DeleteAffordancePos(p.X, p.Y, n.Size().X)
	}
	return DeleteAffordancePos(r.X, r.Y, r.Width)
}

// hoverLabelPos returns the hover label position for the shape at index i,
// following the live node during a drag.
func (e *Editor) hoverLabelPos(i int) Vec2 {
	r := e.store.shapes[i]
	if n := e.gesture.node; n != nil && e.gesture.id == r.ID && e.gesture.kind == gestureDrag {
		p, s := n.Position(), n.Size()
		return HoverLabelPos(p.X, p.Y, s.X, s.Y)
	}
	return HoverLabelPos(r.X, r.Y, r.Width, r.Height)
}

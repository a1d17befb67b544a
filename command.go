package boxmark

import (
	"bytes"
	"fmt"
)

// Command is one atomic editor mutation. Pointer handling, scripts, the
// keyboard and the HTTP API all go through Editor.Apply so every edit runs
// to completion before the next one starts.
type Command interface {
	apply(e *Editor) error
}

// PanStart engages a pan when Target is the background or the image.
type PanStart struct {
	Pointer Vec2
	Target  Target
}

func (c PanStart) apply(e *Editor) error {
	if !e.view.BeginPan(c.Pointer, c.Target) {
		return fmt.Errorf("pan on %s: not pannable", c.Target.Kind)
	}
	return nil
}

// PanMove advances an active pan to Pointer.
type PanMove struct {
	Pointer Vec2
}

func (c PanMove) apply(e *Editor) error {
	e.view.PanTo(c.Pointer)
	return nil
}

// PanEnd leaves the panning state.
type PanEnd struct{}

func (PanEnd) apply(e *Editor) error {
	e.view.EndPan()
	return nil
}

// ShapeDragCommit writes the dragged position of ID into the store.
type ShapeDragCommit struct {
	ID     string
	Handle ShapeHandle
}

func (c ShapeDragCommit) apply(e *Editor) error {
	if c.Handle == nil {
		return fmt.Errorf("commit drag %q: %w", c.ID, ErrNoGesture)
	}
	_, err := CommitDrag(e.store, c.ID, c.Handle)
	return err
}

// ShapeTransformCommit folds the transform of ID into its stored size.
type ShapeTransformCommit struct {
	ID     string
	Handle ShapeHandle
}

func (c ShapeTransformCommit) apply(e *Editor) error {
	if c.Handle == nil {
		return fmt.Errorf("commit transform %q: %w", c.ID, ErrNoGesture)
	}
	_, err := CommitTransform(e.store, c.ID, c.Handle, e.cfg.Shapes.MinSize)
	return err
}

// SelectShape selects ID. Ignored outside edit mode.
type SelectShape struct {
	ID string
}

func (c SelectShape) apply(e *Editor) error {
	if !e.editable {
		return ErrNotEditable
	}
	if !e.store.Has(c.ID) {
		return fmt.Errorf("select %q: %w", c.ID, ErrShapeNotFound)
	}
	e.selection.Select(c.ID, e.editable)
	return nil
}

// Deselect applies the deselect rule for a pointer-down on Target.
type Deselect struct {
	Target Target
}

func (c Deselect) apply(e *Editor) error {
	e.selection.HandlePointerDown(c.Target)
	return nil
}

// AddRectangle adds a default rectangle centered in the visible canvas.
type AddRectangle struct{}

func (AddRectangle) apply(e *Editor) error {
	_, err := e.AddRectangle()
	return err
}

// RemoveShape removes ID. Absent ids are not an error.
type RemoveShape struct {
	ID string
}

func (c RemoveShape) apply(e *Editor) error {
	e.RemoveShape(c.ID)
	return nil
}

// ZoomAtPointer zooms around a screen pointer for a wheel delta.
type ZoomAtPointer struct {
	Pointer Vec2
	Delta   float64
}

func (c ZoomAtPointer) apply(e *Editor) error {
	return e.view.ZoomAt(c.Pointer, c.Delta)
}

// ZoomStep zooms in (Dir > 0) or out without an anchor.
type ZoomStep struct {
	Dir int
}

func (c ZoomStep) apply(e *Editor) error {
	return e.view.ZoomStep(c.Dir)
}

// ImportShapes replaces the store with the JSON array in Data.
type ImportShapes struct {
	Data []byte
}

func (c ImportShapes) apply(e *Editor) error {
	return e.ImportJSON(bytes.NewReader(c.Data))
}

// ToggleEditable flips edit mode.
type ToggleEditable struct{}

func (ToggleEditable) apply(e *Editor) error {
	e.ToggleEditable()
	return nil
}

// MarkAlerts flags every odd-indexed rectangle.
type MarkAlerts struct{}

func (MarkAlerts) apply(e *Editor) error {
	e.MarkAlerts()
	return nil
}

// Highlight emphasizes ID.
type Highlight struct {
	ID string
}

func (c Highlight) apply(e *Editor) error {
	return e.Highlight(c.ID)
}

// ResetView animates back to the identity viewport.
type ResetView struct{}

func (ResetView) apply(e *Editor) error {
	return e.ResetView()
}

package boxmark

// Frame is a render-neutral description of one editor frame. All geometry is
// in world coordinates; renderers map it to the screen through Viewport.
// Shapes are in draw order, later entries on top.
type Frame struct {
	Viewport   Viewport
	Canvas     Vec2
	Background *Background
	Shapes     []FrameShape
	Chrome     *FrameChrome // nil when chrome is excluded
}

// FrameShape is one rectangle as it should be drawn.
type FrameShape struct {
	ID       string
	Index    int
	Corners  [4]Vec2
	Stroke   Color
	Fill     Color
	Selected bool
	Hovered  bool
	Label    string // hover label, empty when the shape is not hovered
	LabelPos Vec2
}

// FrameChrome holds the interactive overlays of the selected shape.
type FrameChrome struct {
	ShapeID    string
	Outline    [4]Vec2
	Anchors    []FrameAnchor
	Delete     Rect
	DeletePos  Vec2
	AnchorSize float64 // world units at the frame's scale
}

// FrameAnchor is one transform handle in world coordinates.
type FrameAnchor struct {
	Anchor Anchor
	Pos    Vec2
}

// Frame describes the current editor state for rendering. With chrome false
// the result omits handles, the delete affordance and hover labels, which is
// what raster exports use.
func (e *Editor) Frame(chrome bool) Frame {
	vp := e.Viewport()
	f := Frame{
		Viewport:   vp,
		Canvas:     Vec2{e.cfg.Canvas.Width, e.cfg.Canvas.Height},
		Background: e.background,
		Shapes:     make([]FrameShape, 0, e.store.Len()),
	}
	selID, hasSel := e.selection.ID()
	for i, r := range e.store.shapes {
		stroke := e.strokeFor(r)
		fs := FrameShape{
			ID:       r.ID,
			Index:    i,
			Corners:  e.liveBox(i).Corners(),
			Stroke:   stroke,
			Fill:     stroke.Fill(),
			Selected: hasSel && r.ID == selID,
		}
		if chrome && r.ID == e.hoverID {
			fs.Hovered = true
			fs.Label = HoverLabel(i)
			fs.LabelPos = e.hoverLabelPos(i)
		}
		f.Shapes = append(f.Shapes, fs)
	}
	if !chrome || !hasSel || !e.editable {
		return f
	}
	i := e.store.Index(selID)
	if i < 0 {
		return f
	}
	box := e.liveBox(i)
	c := &FrameChrome{
		ShapeID:    selID,
		Outline:    box.Corners(),
		Anchors:    make([]FrameAnchor, 0, len(Anchors)),
		DeletePos:  e.deleteAffordance(i),
		AnchorSize: anchorSize / vp.Scale,
	}
	c.Delete = DeleteAffordanceRect(c.DeletePos)
	for _, a := range Anchors {
		c.Anchors = append(c.Anchors, FrameAnchor{Anchor: a, Pos: AnchorPos(box, a, vp.Scale)})
	}
	f.Chrome = c
	return f
}

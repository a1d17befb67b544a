package boxmark

import "math"

// Anchor identifies a transform handle on the selected shape.
type Anchor uint8

const (
	AnchorNone Anchor = iota
	AnchorTopLeft
	AnchorTopCenter
	AnchorTopRight
	AnchorMiddleRight
	AnchorBottomRight
	AnchorBottomCenter
	AnchorBottomLeft
	AnchorMiddleLeft
	AnchorRotater
)

// Handle sizes in screen pixels. They stay constant under zoom.
const (
	anchorSize          = 10.0
	rotateAnchorOffset  = 50.0
	anchorHitTolerance  = 2.0
	rotationNormalizeAt = 180.0
)

var anchorNames = [...]string{
	AnchorNone:         "",
	AnchorTopLeft:      "top-left",
	AnchorTopCenter:    "top-center",
	AnchorTopRight:     "top-right",
	AnchorMiddleRight:  "middle-right",
	AnchorBottomRight:  "bottom-right",
	AnchorBottomCenter: "bottom-center",
	AnchorBottomLeft:   "bottom-left",
	AnchorMiddleLeft:   "middle-left",
	AnchorRotater:      "rotater",
}

// Anchors lists every handle in drawing order.
var Anchors = []Anchor{
	AnchorTopLeft, AnchorTopCenter, AnchorTopRight, AnchorMiddleRight,
	AnchorBottomRight, AnchorBottomCenter, AnchorBottomLeft, AnchorMiddleLeft,
	AnchorRotater,
}

func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return "unknown"
}

// Name returns the target name of the handle, e.g. "top-left _anchor".
func (a Anchor) Name() string {
	if a == AnchorNone {
		return ""
	}
	return a.String() + " " + handleSuffix
}

// edges reports which local edges an anchor moves.
func (a Anchor) edges() (left, top, right, bottom bool) {
	switch a {
	case AnchorTopLeft:
		return true, true, false, false
	case AnchorTopCenter:
		return false, true, false, false
	case AnchorTopRight:
		return false, true, true, false
	case AnchorMiddleRight:
		return false, false, true, false
	case AnchorBottomRight:
		return false, false, true, true
	case AnchorBottomCenter:
		return false, false, false, true
	case AnchorBottomLeft:
		return true, false, false, true
	case AnchorMiddleLeft:
		return true, false, false, false
	}
	return false, false, false, false
}

// AnchorPos returns the world position of handle a on box b. scale is the
// viewport scale, used to keep the rotater at a fixed screen distance.
func AnchorPos(b Box, a Anchor, scale float64) Vec2 {
	w, h := b.Width, b.Height
	var local Vec2
	switch a {
	case AnchorTopLeft:
		local = Vec2{0, 0}
	case AnchorTopCenter:
		local = Vec2{w / 2, 0}
	case AnchorTopRight:
		local = Vec2{w, 0}
	case AnchorMiddleRight:
		local = Vec2{w, h / 2}
	case AnchorBottomRight:
		local = Vec2{w, h}
	case AnchorBottomCenter:
		local = Vec2{w / 2, h}
	case AnchorBottomLeft:
		local = Vec2{0, h}
	case AnchorMiddleLeft:
		local = Vec2{0, h / 2}
	case AnchorRotater:
		local = Vec2{w / 2, -rotateAnchorOffset / scale}
	}
	return Vec2{b.X, b.Y}.Add(rotateVec(local, b.Rotation))
}

// HitAnchor returns the handle of b under the world point p, or AnchorNone.
// Handles are tested in reverse drawing order so the rotater wins overlaps.
func HitAnchor(b Box, p Vec2, scale float64) Anchor {
	half := (anchorSize/2 + anchorHitTolerance) / scale
	for i := len(Anchors) - 1; i >= 0; i-- {
		a := Anchors[i]
		c := AnchorPos(b, a, scale)
		if math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half {
			return a
		}
	}
	return AnchorNone
}

// ResizeBox moves the edges of b selected by anchor to the world point p,
// working in the box's own rotated frame. The result is not guarded; pass it
// through LimitBox.
func ResizeBox(b Box, anchor Anchor, p Vec2) Box {
	local := rotateVec(p.Sub(Vec2{b.X, b.Y}), -b.Rotation)
	left, top, right, bottom := 0.0, 0.0, b.Width, b.Height
	ml, mt, mr, mb := anchor.edges()
	if ml {
		left = local.X
	}
	if mt {
		top = local.Y
	}
	if mr {
		right = local.X
	}
	if mb {
		bottom = local.Y
	}
	origin := Vec2{b.X, b.Y}.Add(rotateVec(Vec2{left, top}, b.Rotation))
	return Box{
		X:        origin.X,
		Y:        origin.Y,
		Width:    right - left,
		Height:   bottom - top,
		Rotation: b.Rotation,
	}
}

// RotateBox turns b around its center so the rotater points at p.
func RotateBox(b Box, p Vec2) Box {
	c := b.Center()
	deg := math.Atan2(p.Y-c.Y, p.X-c.X)*180/math.Pi + 90
	deg = normalizeDegrees(deg)
	half := rotateVec(Vec2{b.Width / 2, b.Height / 2}, deg)
	return Box{
		X:        c.X - half.X,
		Y:        c.Y - half.Y,
		Width:    b.Width,
		Height:   b.Height,
		Rotation: deg,
	}
}

// normalizeDegrees maps deg into [-180, 180).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg+rotationNormalizeAt, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - rotationNormalizeAt
}

// Transformer is the in-flight resize/rotate gesture on one shape.
type Transformer struct {
	node   *ShapeNode
	anchor Anchor
	min    float64
}

// NewTransformer starts a transform gesture on node through anchor.
func NewTransformer(node *ShapeNode, anchor Anchor, minSize float64) *Transformer {
	return &Transformer{node: node, anchor: anchor, min: minSize}
}

// Anchor returns the handle driving the gesture.
func (t *Transformer) Anchor() Anchor { return t.anchor }

// Node returns the live node being transformed.
func (t *Transformer) Node() *ShapeNode { return t.node }

// MoveTo updates the live node for a pointer at world point p. Proposals
// smaller than the minimum size are rejected and the node keeps its box.
func (t *Transformer) MoveTo(p Vec2) {
	old := t.node.Box()
	var next Box
	if t.anchor == AnchorRotater {
		next = RotateBox(old, p)
	} else {
		next = ResizeBox(old, t.anchor, p)
	}
	t.node.SetBox(LimitBox(old, next, t.min))
}

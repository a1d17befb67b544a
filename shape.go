package boxmark

import (
	"math"
	"strconv"
)

// Delete affordance and hover label placement, in world units.
const (
	deleteOffsetX   = 20.0
	deleteOffsetY   = -30.0
	deleteHitShiftX = -8.0
	deleteHitShiftY = 8.0
	deleteHitSize   = 20.0
)

// ShapeHandle is the capability a gesture uses to read and reset the live
// geometry of the shape it manipulates. A handle is owned by one gesture and
// dropped when the gesture commits.
type ShapeHandle interface {
	Position() Vec2
	Size() Vec2
	Scale() Vec2
	Rotation() float64
	ResetScale()
}

// ShapeNode is the live, in-gesture geometry of one rectangle. Width and
// height stay at their stored values while a transform runs; the gesture
// only changes position, scale and rotation. It implements ShapeHandle.
type ShapeNode struct {
	id     string
	x, y   float64
	w, h   float64
	sx, sy float64
	rot    float64
}

// NewShapeNode creates a live node from a stored rectangle.
func NewShapeNode(r Rectangle) *ShapeNode {
	return &ShapeNode{
		id:  r.ID,
		x:   r.X,
		y:   r.Y,
		w:   r.Width,
		h:   r.Height,
		sx:  1,
		sy:  1,
		rot: r.RotationDeg(),
	}
}

// ID returns the id of the shape this node mirrors.
func (n *ShapeNode) ID() string { return n.id }

// Position returns the top-left corner in world coordinates.
func (n *ShapeNode) Position() Vec2 { return Vec2{n.x, n.y} }

// Size returns the unscaled width and height.
func (n *ShapeNode) Size() Vec2 { return Vec2{n.w, n.h} }

// Scale returns the rendering scale applied by a transform gesture.
func (n *ShapeNode) Scale() Vec2 { return Vec2{n.sx, n.sy} }

// Rotation returns the rotation in degrees.
func (n *ShapeNode) Rotation() float64 { return n.rot }

// ResetScale sets the rendering scale back to 1.
func (n *ShapeNode) ResetScale() { n.sx, n.sy = 1, 1 }

// SetPosition moves the node.
func (n *ShapeNode) SetPosition(p Vec2) { n.x, n.y = p.X, p.Y }

// SetScale sets the rendering scale.
func (n *ShapeNode) SetScale(sx, sy float64) { n.sx, n.sy = sx, sy }

// SetRotation sets the rotation in degrees.
func (n *ShapeNode) SetRotation(deg float64) { n.rot = deg }

// Box returns the node's displayed box: position, scaled size and rotation.
func (n *ShapeNode) Box() Box {
	return Box{X: n.x, Y: n.y, Width: n.w * n.sx, Height: n.h * n.sy, Rotation: n.rot}
}

// SetBox applies a displayed box back onto the node by adjusting position,
// rotation and scale. Stored width and height never change here.
func (n *ShapeNode) SetBox(b Box) {
	n.x, n.y, n.rot = b.X, b.Y, b.Rotation
	if n.w != 0 {
		n.sx = b.Width / n.w
	}
	if n.h != 0 {
		n.sy = b.Height / n.h
	}
}

// Box is a rotated rectangle in world coordinates. Rotation is in degrees
// around (X, Y).
type Box struct {
	X, Y, Width, Height, Rotation float64
}

// BoxOf returns the stored geometry of r as a Box.
func BoxOf(r Rectangle) Box {
	return Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Rotation: r.RotationDeg()}
}

// Corners returns the four world-space corners of b.
func (b Box) Corners() [4]Vec2 {
	return Corners(b.X, b.Y, b.Width, b.Height, b.Rotation)
}

// Contains reports whether the world point p lies inside b.
func (b Box) Contains(p Vec2) bool {
	inv := invertAffine(shapeTransform(b.X, b.Y, b.Rotation, 1, 1))
	lx, ly := transformPoint(inv, p.X, p.Y)
	return Rect{Width: b.Width, Height: b.Height}.Contains(lx, ly)
}

// Center returns the world-space center of b.
func (b Box) Center() Vec2 {
	return Vec2{b.X, b.Y}.Add(rotateVec(Vec2{b.Width / 2, b.Height / 2}, b.Rotation))
}

// LimitBox is the pre-commit resize guard: a proposed box smaller than minSize
// in either dimension is rejected and the old box kept. A handle dragged past
// the opposite edge yields a negative size, so flipping is rejected too.
func LimitBox(oldBox, newBox Box, minSize float64) Box {
	if newBox.Width < minSize || newBox.Height < minSize {
		return oldBox
	}
	return newBox
}

// CommitDrag writes the handle's position into the store. Every other field
// of the record is preserved.
func CommitDrag(store *ShapeStore, id string, h ShapeHandle) (Rectangle, error) {
	p := h.Position()
	return store.Update(id, ShapePatch{X: Float(p.X), Y: Float(p.Y)})
}

// CommitTransform folds the handle's scale into width and height, resets the
// scale to 1 and writes size, position and rotation into the store. Both
// dimensions are floored at minSize.
func CommitTransform(store *ShapeStore, id string, h ShapeHandle, minSize float64) (Rectangle, error) {
	scale := h.Scale()
	size := h.Size()
	h.ResetScale()
	p := h.Position()
	return store.Update(id, ShapePatch{
		X:        Float(p.X),
		Y:        Float(p.Y),
		Width:    Float(math.Max(minSize, size.X*scale.X)),
		Height:   Float(math.Max(minSize, size.Y*scale.Y)),
		Rotation: Float(h.Rotation()),
	})
}

// DeleteAffordancePos returns where the remove button of a shape at (x, y)
// with width w sits.
func DeleteAffordancePos(x, y, w float64) Vec2 {
	return Vec2{x + w + deleteOffsetX, y + deleteOffsetY}
}

// DeleteAffordanceRect returns the hit area of the remove button anchored at
// pos.
func DeleteAffordanceRect(pos Vec2) Rect {
	return Rect{
		X:      pos.X + deleteHitShiftX,
		Y:      pos.Y + deleteHitShiftY,
		Width:  deleteHitSize,
		Height: deleteHitSize,
	}
}

// HoverLabel returns the label shown for the shape at display index i.
func HoverLabel(i int) string {
	return "RL-100" + strconv.Itoa(i+1)
}

// HoverLabelPos returns where the hover label of a shape is drawn.
func HoverLabelPos(x, y, w, h float64) Vec2 {
	return Vec2{x + w/4, y + h/2}
}

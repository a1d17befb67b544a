package boxmark

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Viewport maps world coordinates to screen coordinates: screen = world*Scale
// + Offset. It is a value; every operation returns a new Viewport.
type Viewport struct {
	Scale  float64
	Offset Vec2
}

// IdentityViewport is scale 1 at the origin.
var IdentityViewport = Viewport{Scale: 1}

// Valid reports whether the scale is positive and finite.
func (v Viewport) Valid() bool {
	return v.Scale > 0 && !math.IsInf(v.Scale, 0) && !math.IsNaN(v.Scale)
}

// ScreenToWorld converts a screen point through this viewport.
func (v Viewport) ScreenToWorld(p Vec2) Vec2 {
	return ScreenToWorld(p, v.Scale, v.Offset)
}

// WorldToScreen converts a world point through this viewport.
func (v Viewport) WorldToScreen(p Vec2) Vec2 {
	return WorldToScreen(p, v.Scale, v.Offset)
}

// ZoomAt zooms around a screen pointer so the world point under it stays
// put. A positive wheel delta zooms out, anything else zooms in.
func (v Viewport) ZoomAt(pointer Vec2, wheelDelta, factor float64) Viewport {
	world := v.ScreenToWorld(pointer)
	next := v.Scale * factor
	if wheelDelta > 0 {
		next = v.Scale / factor
	}
	return Viewport{
		Scale:  next,
		Offset: pointer.Sub(world.Scale(next)),
	}
}

// ZoomStep multiplies (dir > 0) or divides (dir <= 0) the scale by factor
// without an anchor. The offset is unchanged.
func (v Viewport) ZoomStep(dir int, factor float64) Viewport {
	if dir > 0 {
		v.Scale *= factor
	} else {
		v.Scale /= factor
	}
	return v
}

// PanBy translates the offset by a screen-space delta.
func (v Viewport) PanBy(d Vec2) Viewport {
	v.Offset = v.Offset.Add(d)
	return v
}

// VisibleBounds returns the world-space rectangle visible in a screen area of
// the given size.
func (v Viewport) VisibleBounds(w, h float64) Rect {
	tl := v.ScreenToWorld(Vec2{0, 0})
	br := v.ScreenToWorld(Vec2{w, h})
	return Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// viewportAnim holds the active tweens of an animated viewport change.
type viewportAnim struct {
	scale, offX, offY *gween.Tween
	target            Viewport
}

// ViewportController owns the editor viewport and the pan gesture.
//
// State machine: Idle -> Panning -> Idle. Panning is entered on a pointer-down
// over a pannable target and left on pointer-up.
type ViewportController struct {
	vp      Viewport
	factor  float64
	panning bool
	last    Vec2
	anim    *viewportAnim
}

// NewViewportController returns a controller at the identity viewport.
func NewViewportController(zoomFactor float64) *ViewportController {
	if zoomFactor <= 1 {
		zoomFactor = ZoomFactor
	}
	return &ViewportController{vp: IdentityViewport, factor: zoomFactor}
}

// Viewport returns the current viewport.
func (c *ViewportController) Viewport() Viewport {
	return c.vp
}

// Set replaces the viewport. Invalid viewports are refused with
// ErrInvalidScale and the current one is kept. Any running animation stops.
func (c *ViewportController) Set(v Viewport) error {
	if !v.Valid() {
		return fmt.Errorf("set scale %v: %w", v.Scale, ErrInvalidScale)
	}
	c.vp = v
	c.anim = nil
	return nil
}

// ZoomAt performs pointer-anchored zoom for a wheel event.
func (c *ViewportController) ZoomAt(pointer Vec2, wheelDelta float64) error {
	return c.Set(c.vp.ZoomAt(pointer, wheelDelta, c.factor))
}

// ZoomStep performs an unanchored button zoom.
func (c *ViewportController) ZoomStep(dir int) error {
	return c.Set(c.vp.ZoomStep(dir, c.factor))
}

// Panning reports whether a pan gesture is active.
func (c *ViewportController) Panning() bool {
	return c.panning
}

// BeginPan engages a pan when target is the background or the image. It
// reports whether panning started.
func (c *ViewportController) BeginPan(pointer Vec2, target Target) bool {
	if c.panning || !target.Pannable() {
		return false
	}
	c.panning = true
	c.last = pointer
	c.anim = nil
	return true
}

// PanTo advances the offset by the delta since the previous pointer position.
// No-op unless panning.
func (c *ViewportController) PanTo(pointer Vec2) {
	if !c.panning {
		return
	}
	c.vp = c.vp.PanBy(pointer.Sub(c.last))
	c.last = pointer
}

// EndPan leaves the Panning state. Safe to call when idle.
func (c *ViewportController) EndPan() {
	c.panning = false
}

// AnimateTo tweens the viewport to target over seconds using easeFn.
func (c *ViewportController) AnimateTo(target Viewport, seconds float32, easeFn ease.TweenFunc) error {
	if !target.Valid() {
		return fmt.Errorf("animate to scale %v: %w", target.Scale, ErrInvalidScale)
	}
	if seconds <= 0 {
		return c.Set(target)
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	c.anim = &viewportAnim{
		scale:  gween.New(float32(c.vp.Scale), float32(target.Scale), seconds, easeFn),
		offX:   gween.New(float32(c.vp.Offset.X), float32(target.Offset.X), seconds, easeFn),
		offY:   gween.New(float32(c.vp.Offset.Y), float32(target.Offset.Y), seconds, easeFn),
		target: target,
	}
	return nil
}

// Animating reports whether an AnimateTo tween is running.
func (c *ViewportController) Animating() bool {
	return c.anim != nil
}

// Update advances a running animation by dt seconds. The final frame lands
// exactly on the target.
func (c *ViewportController) Update(dt float32) {
	a := c.anim
	if a == nil {
		return
	}
	s, doneS := a.scale.Update(dt)
	x, doneX := a.offX.Update(dt)
	y, doneY := a.offY.Update(dt)
	if doneS && doneX && doneY {
		c.vp = a.target
		c.anim = nil
		return
	}
	next := Viewport{Scale: float64(s), Offset: Vec2{float64(x), float64(y)}}
	if next.Valid() {
		c.vp = next
	}
}

// swap installs v, pausing any animation, and returns a function that puts
// the previous viewport and animation back.
func (c *ViewportController) swap(v Viewport) (restore func()) {
	prevVP, prevAnim := c.vp, c.anim
	c.vp, c.anim = v, nil
	return func() {
		c.vp, c.anim = prevVP, prevAnim
	}
}

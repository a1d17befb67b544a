package boxmark

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestZoomAtKeepsPointerAnchored(t *testing.T) {
	viewports := []Viewport{
		IdentityViewport,
		{Scale: 2.5, Offset: Vec2{-300, 120}},
		{Scale: 0.3, Offset: Vec2{45, 45}},
	}
	pointers := []Vec2{{0, 0}, {700, 400}, {1399, 1}, {-20, 900}}
	for _, vp := range viewports {
		for _, p := range pointers {
			for _, delta := range []float64{-120, -1, 1, 53} {
				before := vp.ScreenToWorld(p)
				next := vp.ZoomAt(p, delta, ZoomFactor)
				after := next.WorldToScreen(before)
				if !approxEqual(after.X, p.X, 1e-6) || !approxEqual(after.Y, p.Y, 1e-6) {
					t.Errorf("vp=%v p=%v delta=%v: world point moved to %v", vp, p, delta, after)
				}
			}
		}
	}
}

func TestZoomAtDirection(t *testing.T) {
	in := IdentityViewport.ZoomAt(Vec2{100, 50}, -1, 1.1)
	assertNear(t, "zoom in scale", in.Scale, 1.1)
	assertVec(t, "zoom in offset", in.Offset, Vec2{-10, -5})

	out := IdentityViewport.ZoomAt(Vec2{100, 50}, 1, 1.1)
	assertNear(t, "zoom out scale", out.Scale, 1/1.1)
}

func TestZoomStepKeepsOffset(t *testing.T) {
	vp := Viewport{Scale: 2, Offset: Vec2{30, 40}}
	in := vp.ZoomStep(1, 1.1)
	assertNear(t, "scale", in.Scale, 2.2)
	assertVec(t, "offset", in.Offset, vp.Offset)
	out := vp.ZoomStep(-1, 1.1)
	assertNear(t, "scale", out.Scale, 2/1.1)
}

func TestViewportControllerRejectsInvalidScale(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := c.Set(Viewport{Scale: s}); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("Set(scale=%v) err = %v, want ErrInvalidScale", s, err)
		}
	}
	if c.Viewport() != IdentityViewport {
		t.Errorf("viewport = %v, want identity kept", c.Viewport())
	}
}

func TestViewportControllerDefaultsZoomFactor(t *testing.T) {
	c := NewViewportController(0)
	if err := c.ZoomStep(1); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "scale", c.Viewport().Scale, ZoomFactor)
}

func TestPanStateMachine(t *testing.T) {
	c := NewViewportController(ZoomFactor)

	if c.BeginPan(Vec2{10, 10}, Target{Kind: TargetShape, ID: "rect1"}) {
		t.Fatal("pan engaged on a shape")
	}
	if c.BeginPan(Vec2{10, 10}, Target{Kind: TargetAnchor, ID: "rect1", Name: AnchorTopLeft.Name()}) {
		t.Fatal("pan engaged on a handle")
	}
	c.PanTo(Vec2{50, 50})
	if c.Viewport().Offset != (Vec2{}) {
		t.Fatalf("offset moved while idle: %v", c.Viewport().Offset)
	}

	if !c.BeginPan(Vec2{10, 10}, Target{Kind: TargetBackground}) {
		t.Fatal("pan not engaged on background")
	}
	if c.BeginPan(Vec2{0, 0}, Target{Kind: TargetImage}) {
		t.Error("pan re-entered mid-gesture")
	}
	c.PanTo(Vec2{15, 30})
	c.PanTo(Vec2{25, 20})
	assertVec(t, "offset", c.Viewport().Offset, Vec2{15, 10})

	c.EndPan()
	c.EndPan() // idempotent
	if c.Panning() {
		t.Error("still panning after EndPan")
	}
	c.PanTo(Vec2{100, 100})
	assertVec(t, "offset after end", c.Viewport().Offset, Vec2{15, 10})
}

func TestPanUsesScreenDeltasAtAnyScale(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	if err := c.Set(Viewport{Scale: 4}); err != nil {
		t.Fatal(err)
	}
	c.BeginPan(Vec2{0, 0}, Target{Kind: TargetImage})
	c.PanTo(Vec2{8, -4})
	assertVec(t, "offset", c.Viewport().Offset, Vec2{8, -4})
}

func TestAnimateToLandsOnTarget(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	if err := c.Set(Viewport{Scale: 3, Offset: Vec2{-200, 90}}); err != nil {
		t.Fatal(err)
	}
	if err := c.AnimateTo(IdentityViewport, 0.25, ease.OutCubic); err != nil {
		t.Fatal(err)
	}
	if !c.Animating() {
		t.Fatal("not animating")
	}
	c.Update(0.1)
	mid := c.Viewport()
	if mid.Scale >= 3 || mid.Scale <= 1 {
		t.Errorf("mid-animation scale = %v, want between 1 and 3", mid.Scale)
	}
	for i := 0; i < 10; i++ {
		c.Update(0.1)
	}
	if c.Animating() {
		t.Error("animation did not finish")
	}
	if c.Viewport() != IdentityViewport {
		t.Errorf("final viewport = %v, want identity", c.Viewport())
	}
}

func TestAnimateToZeroDurationSnaps(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	target := Viewport{Scale: 2, Offset: Vec2{5, 5}}
	if err := c.AnimateTo(target, 0, nil); err != nil {
		t.Fatal(err)
	}
	if c.Animating() || c.Viewport() != target {
		t.Errorf("viewport = %v animating=%v, want snapped to %v", c.Viewport(), c.Animating(), target)
	}
}

func TestAnimateToRejectsInvalidTarget(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	if err := c.AnimateTo(Viewport{Scale: 0}, 1, nil); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("err = %v, want ErrInvalidScale", err)
	}
}

func TestSwapRestoresViewportAndAnimation(t *testing.T) {
	c := NewViewportController(ZoomFactor)
	prev := Viewport{Scale: 2, Offset: Vec2{11, 12}}
	_ = c.Set(prev)
	_ = c.AnimateTo(IdentityViewport, 1, nil)

	restore := c.swap(IdentityViewport)
	if c.Viewport() != IdentityViewport || c.Animating() {
		t.Fatalf("swap did not install identity: %v animating=%v", c.Viewport(), c.Animating())
	}
	restore()
	if c.Viewport() != prev {
		t.Errorf("restored viewport = %v, want %v", c.Viewport(), prev)
	}
	if !c.Animating() {
		t.Error("animation not restored")
	}
}

func TestVisibleBounds(t *testing.T) {
	vp := Viewport{Scale: 2, Offset: Vec2{-100, -50}}
	b := vp.VisibleBounds(1400, 800)
	assertNear(t, "x", b.X, 50)
	assertNear(t, "y", b.Y, 25)
	assertNear(t, "width", b.Width, 700)
	assertNear(t, "height", b.Height, 400)
}

package boxmark

import (
	"errors"
	"image"
	"testing"
)

func click(e *Editor, p Vec2) {
	e.HandlePointer(p, true, MouseButtonLeft)
	e.HandlePointer(p, false, MouseButtonLeft)
}

func TestHitTestOrder(t *testing.T) {
	e := newTestEditor(t)
	e.Store().ReplaceAll([]Rectangle{
		rect("under", 0, 0, 100, 100),
		rect("over", 50, 50, 100, 100),
	})
	e.SetBackground(NewBackground(image.NewNRGBA(image.Rect(0, 0, 700, 400)), 1400, 800))

	tests := []struct {
		name string
		p    Vec2
		want Target
	}{
		{"topmost shape wins", Vec2{75, 75}, Target{Kind: TargetShape, ID: "over"}},
		{"lower shape", Vec2{10, 10}, Target{Kind: TargetShape, ID: "under"}},
		{"image", Vec2{700, 400}, Target{Kind: TargetImage, Name: "image"}},
		{"empty canvas", Vec2{-10, -10}, Target{Kind: TargetBackground}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.HitTest(tt.p); got != tt.want {
				t.Errorf("HitTest(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHitTestChromeOnlyWhenEditable(t *testing.T) {
	e := newTestEditor(t)
	e.Store().ReplaceAll([]Rectangle{rect("a", 0, 0, 100, 100)})
	_ = e.Apply(SelectShape{ID: "a"})

	// Delete affordance sits at (120, -30); its hit area starts 8px in.
	del := Vec2{130, -15}
	if got := e.HitTest(del); got.Kind != TargetDeleteAffordance || got.ID != "a" {
		t.Fatalf("HitTest = %+v, want delete affordance", got)
	}
	if got := e.HitTest(Vec2{0, 0}); got.Kind != TargetAnchor || got.Anchor != AnchorTopLeft {
		t.Errorf("HitTest = %+v, want top-left anchor", got)
	}

	e.ToggleEditable()
	if got := e.HitTest(del); got.Kind != TargetBackground {
		t.Errorf("HitTest = %+v, want background outside edit mode", got)
	}
	if got := e.HitTest(Vec2{0, 0}); got.Kind != TargetShape {
		t.Errorf("HitTest = %+v, want shape outside edit mode", got)
	}
}

func TestDeleteAffordanceRemovesAndSwallowsPress(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)
	mustAdd(t, e)
	_ = e.Apply(SelectShape{ID: "rect2"})

	// rect2 is at (650, 350); its remove button at (770, 320).
	p := Vec2{780, 335}
	e.HandlePointer(p, true, MouseButtonLeft)
	e.HandlePointer(Vec2{900, 500}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{900, 500}, false, MouseButtonLeft)

	if e.Store().Has("rect2") {
		t.Error("rect2 not removed")
	}
	if !e.Store().Has("rect1") {
		t.Error("rect1 removed too")
	}
	if _, ok := e.Selection().ID(); ok {
		t.Error("selection survived removal")
	}
	if e.Viewport() != IdentityViewport {
		t.Errorf("press on the delete affordance started a pan: %v", e.Viewport())
	}
}

func TestPanOnBackground(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)
	_ = e.Apply(SelectShape{ID: "rect1"})

	e.HandlePointer(Vec2{10, 10}, true, MouseButtonLeft)
	if _, ok := e.Selection().ID(); ok {
		t.Error("pointer-down on background kept the selection")
	}
	e.HandlePointer(Vec2{20, 25}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{30, 40}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{30, 40}, false, MouseButtonLeft)

	assertVec(t, "offset", e.Viewport().Offset, Vec2{20, 30})
	if e.ViewportController().Panning() {
		t.Error("still panning after release")
	}
	if got, _ := e.Store().Get("rect1"); got.X != 650 {
		t.Errorf("pan moved the shape: %+v", got)
	}
}

func TestPressOnUnselectedShapeDoesNotDrag(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)

	e.HandlePointer(Vec2{700, 400}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{900, 700}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{900, 700}, false, MouseButtonLeft)

	if got, _ := e.Store().Get("rect1"); got.X != 650 || got.Y != 350 {
		t.Errorf("unselected shape moved: %+v", got)
	}
	if _, ok := e.Selection().ID(); ok {
		t.Error("release off the shape selected it")
	}
	if e.Viewport() != IdentityViewport {
		t.Errorf("press on a shape panned: %v", e.Viewport())
	}
}

func TestPressOnOtherShapeSwitchesSelection(t *testing.T) {
	e := newTestEditor(t)
	e.Store().ReplaceAll([]Rectangle{rect("a", 0, 0, 100, 100), rect("b", 300, 300, 100, 100)})
	_ = e.Apply(SelectShape{ID: "a"})

	e.HandlePointer(Vec2{350, 350}, true, MouseButtonLeft)
	if e.Selection().IsSelected("a") {
		t.Error("pointer-down on b kept a selected")
	}
	e.HandlePointer(Vec2{350, 350}, false, MouseButtonLeft)
	if !e.Selection().IsSelected("b") {
		t.Error("click did not select b")
	}
}

func TestSmallMovementIsAClick(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)
	_ = e.Apply(SelectShape{ID: "rect1"})

	e.HandlePointer(Vec2{700, 400}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{702, 401}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{702, 401}, false, MouseButtonLeft)

	if got, _ := e.Store().Get("rect1"); got.X != 650 || got.Y != 350 {
		t.Errorf("movement inside the dead zone dragged: %+v", got)
	}
	if !e.Selection().IsSelected("rect1") {
		t.Error("selection lost")
	}
}

func TestDragDeadZoneIsConfigurable(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)
	_ = e.Apply(SelectShape{ID: "rect1"})
	e.SetDragDeadZone(0)

	e.HandlePointer(Vec2{700, 400}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{701, 400}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{701, 400}, false, MouseButtonLeft)

	if got, _ := e.Store().Get("rect1"); got.X != 651 {
		t.Errorf("x = %v, want 651", got.X)
	}
}

func TestDragAtZoomUsesWorldDelta(t *testing.T) {
	e := newTestEditor(t)
	e.Store().ReplaceAll([]Rectangle{rect("a", 0, 0, 100, 100)})
	_ = e.ViewportController().Set(Viewport{Scale: 2})
	_ = e.Apply(SelectShape{ID: "a"})

	e.HandlePointer(Vec2{100, 100}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{140, 120}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{140, 120}, false, MouseButtonLeft)

	got, _ := e.Store().Get("a")
	assertNear(t, "x", got.X, 20)
	assertNear(t, "y", got.Y, 10)
}

func TestDragAcrossZoomChange(t *testing.T) {
	e := newTestEditor(t)
	e.Store().ReplaceAll([]Rectangle{rect("a", 0, 0, 100, 100)})
	_ = e.Apply(SelectShape{ID: "a"})
	e.SetDragDeadZone(0)

	e.HandlePointer(Vec2{50, 50}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{60, 50}, true, MouseButtonLeft)
	// Keyboard zoom between two pointer samples.
	if err := e.Apply(ZoomStep{Dir: 1}); err != nil {
		t.Fatal(err)
	}
	e.HandlePointer(Vec2{61, 50}, true, MouseButtonLeft)
	e.HandlePointer(Vec2{61, 50}, false, MouseButtonLeft)

	got, _ := e.Store().Get("a")
	assertNear(t, "x", got.X, 10+1/ZoomFactor)
	assertNear(t, "y", got.Y, 0)
}

func TestWheelBeforeAnyPointer(t *testing.T) {
	e := newTestEditor(t)
	if err := e.HandleWheel(0); err != nil {
		t.Errorf("zero delta err = %v", err)
	}
	if err := e.HandleWheel(-1); !errors.Is(err, ErrNoPointer) {
		t.Errorf("err = %v, want ErrNoPointer", err)
	}
	if e.Viewport() != IdentityViewport {
		t.Errorf("viewport changed: %v", e.Viewport())
	}
}

func TestWheelZoomsAtLastPointer(t *testing.T) {
	e := newTestEditor(t)
	e.HandlePointer(Vec2{100, 50}, false, MouseButtonLeft)
	if p, ok := e.LastPointer(); !ok || p != (Vec2{100, 50}) {
		t.Fatalf("LastPointer = %v, %v", p, ok)
	}
	if err := e.HandleWheel(-1); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "scale", e.Viewport().Scale, 1.1)
	assertVec(t, "offset", e.Viewport().Offset, Vec2{-10, -5})

	if err := e.HandleWheel(3); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "scale", e.Viewport().Scale, 1)
}

func TestHoverLabelFollowsPointer(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e)

	e.HandlePointer(Vec2{700, 400}, false, MouseButtonLeft)
	if e.Hovered() != "rect1" {
		t.Fatalf("Hovered = %q", e.Hovered())
	}
	f := e.Frame(true)
	if f.Shapes[0].Label != "RL-1001" {
		t.Errorf("Label = %q", f.Shapes[0].Label)
	}
	assertVec(t, "label pos", f.Shapes[0].LabelPos, Vec2{675, 400})

	if f := e.Frame(false); f.Shapes[0].Label != "" {
		t.Error("label present without chrome")
	}

	e.HandlePointer(Vec2{10, 10}, false, MouseButtonLeft)
	if e.Hovered() != "" {
		t.Errorf("Hovered = %q after leaving", e.Hovered())
	}
}

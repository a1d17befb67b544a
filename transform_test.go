package boxmark

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
		t.Errorf("%s = (%v, %v), want (%v, %v)", name, got.X, got.Y, want.X, want.Y)
	}
}

func TestScreenToWorld(t *testing.T) {
	got := ScreenToWorld(Vec2{110, 70}, 2, Vec2{10, 20})
	assertVec(t, "ScreenToWorld", got, Vec2{50, 25})
}

func TestWorldToScreen(t *testing.T) {
	got := WorldToScreen(Vec2{50, 25}, 2, Vec2{10, 20})
	assertVec(t, "WorldToScreen", got, Vec2{110, 70})
}

func TestScreenWorldRoundtrip(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		offset Vec2
	}{
		{"identity", 1, Vec2{}},
		{"zoomed in", 3.5, Vec2{-120, 40}},
		{"zoomed out", 0.25, Vec2{300, -75.5}},
		{"tiny scale", 1e-4, Vec2{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range []Vec2{{0, 0}, {1400, 800}, {-33.3, 512.25}} {
				back := WorldToScreen(ScreenToWorld(p, tt.scale, tt.offset), tt.scale, tt.offset)
				if !approxEqual(back.X, p.X, 1e-6) || !approxEqual(back.Y, p.Y, 1e-6) {
					t.Errorf("roundtrip %v = %v", p, back)
				}
			}
		})
	}
}

func TestCornersUnrotated(t *testing.T) {
	c := Corners(10, 20, 4, 2, 0)
	want := [4]Vec2{{10, 20}, {14, 20}, {14, 22}, {10, 22}}
	for i := range c {
		assertVec(t, "corner", c[i], want[i])
	}
}

func TestCornersRotation90(t *testing.T) {
	// 90 degrees clockwise on a Y-down canvas, pivot at the top-left corner.
	c := Corners(10, 20, 4, 2, 90)
	want := [4]Vec2{{10, 20}, {10, 24}, {8, 24}, {8, 20}}
	for i := range c {
		assertVec(t, "corner", c[i], want[i])
	}
}

func TestInvertAffineRoundtrip(t *testing.T) {
	m := shapeTransform(30, -12, 37, 2, 0.5)
	inv := invertAffine(m)
	x, y := transformPoint(m, 7, 9)
	lx, ly := transformPoint(inv, x, y)
	assertNear(t, "x", lx, 7)
	assertNear(t, "y", ly, 9)

	id := multiplyAffine(m, inv)
	for i := range id {
		assertNear(t, "m*inv", id[i], identityTransform[i])
	}
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("invertAffine(singular) = %v, want identity", got)
	}
}

func TestBoundsOf(t *testing.T) {
	pts := Corners(0, 0, 10, 10, 45)
	b := boundsOf(pts[:])
	d := 10 * math.Sqrt2
	assertNear(t, "width", b.Width, d)
	assertNear(t, "height", b.Height, d)
	assertNear(t, "x", b.X, -d/2)
}

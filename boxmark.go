package boxmark

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Canvas defaults. The logical canvas size is fixed regardless of zoom.
const (
	CanvasWidth      = 1400
	CanvasHeight     = 800
	ZoomFactor       = 1.1
	MinShapeSize     = 5.0
	DefaultShapeSize = 100.0
)

// Vec2 is a 2D vector used for points, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Palette colors used by the editor.
var (
	ColorWhite     = Color{1, 1, 1, 1}
	ColorDefault   = MustParseColor("#00AEEF")
	ColorAlert     = MustParseColor("#FF0000")
	ColorHighlight = MustParseColor("#008000")
)

// fillAlpha is the "20" suffix the shape fill appends to its stroke color.
const fillAlpha = float64(0x20) / 255

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	alpha := 1.0
	if len(hex) == 9 && hex[0] == '#' {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("boxmark: parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("boxmark: parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustParseColor is like ParseColor but panics on malformed input. Intended
// for package-level palette definitions.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Fill returns the translucent fill variant of a stroke color.
func (c Color) Fill() Color {
	return c.WithAlpha(c.A * fillAlpha)
}

// NRGBA converts c to a straight-alpha 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Hex formats c as "#RRGGBB", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// TargetKind classifies what a pointer landed on.
type TargetKind uint8

const (
	TargetBackground       TargetKind = iota // empty canvas, no image
	TargetImage                              // the background image
	TargetShape                              // a rectangle body
	TargetAnchor                             // a transform handle of the selected shape
	TargetDeleteAffordance                   // the remove button of the selected shape
)

func (k TargetKind) String() string {
	switch k {
	case TargetBackground:
		return "background"
	case TargetImage:
		return "image"
	case TargetShape:
		return "shape"
	case TargetAnchor:
		return "anchor"
	case TargetDeleteAffordance:
		return "delete"
	default:
		return "unknown"
	}
}

// Target is the result of a hit test. ID is the shape the target belongs to
// (empty for background and image); Name carries the handle name for anchors.
type Target struct {
	Kind   TargetKind
	ID     string
	Name   string
	Anchor Anchor
}

// Pannable reports whether a pointer-down on t may start a canvas pan.
func (t Target) Pannable() bool {
	return t.Kind == TargetBackground || t.Kind == TargetImage
}

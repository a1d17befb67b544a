package boxmark

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Capturer turns a frame into a bitmap. The ebiten front end captures from
// the GPU; Rasterizer draws on the CPU and needs no window.
type Capturer interface {
	Capture(f Frame) (image.Image, error)
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func(f Frame) (image.Image, error)

// Capture calls fn(f).
func (fn CapturerFunc) Capture(f Frame) (image.Image, error) { return fn(f) }

const rasterStrokeWidth = 2.0

// Rasterizer draws frames into an NRGBA image of the canvas size times
// PixelRatio.
type Rasterizer struct {
	PixelRatio float64
}

// Capture implements Capturer.
func (r Rasterizer) Capture(f Frame) (image.Image, error) {
	ratio := r.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Round(f.Canvas.X * ratio))
	h := int(math.Round(f.Canvas.Y * ratio))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("boxmark: raster size %dx%d is empty", w, h)
	}
	if !f.Viewport.Valid() {
		return nil, fmt.Errorf("boxmark: raster: %w", ErrInvalidScale)
	}
	toPixels := func(p Vec2) Vec2 {
		return f.Viewport.WorldToScreen(p).Scale(ratio)
	}

	dst := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if bg := f.Background; bg != nil && bg.Image != nil {
		tl := toPixels(Vec2{bg.Bounds.X, bg.Bounds.Y})
		br := toPixels(Vec2{bg.Bounds.X + bg.Bounds.Width, bg.Bounds.Y + bg.Bounds.Height})
		bw := int(math.Round(br.X - tl.X))
		bh := int(math.Round(br.Y - tl.Y))
		if src := bg.Resampled(bw, bh); src != nil {
			dst = imaging.Overlay(dst, src, image.Pt(int(math.Round(tl.X)), int(math.Round(tl.Y))), 1.0)
		}
	}

	stroke := rasterStrokeWidth * ratio
	for _, s := range f.Shapes {
		var pts [4]Vec2
		for i, c := range s.Corners {
			pts[i] = toPixels(c)
		}
		fillPolygon(dst, pts[:], s.Fill)
		strokePolygon(dst, pts[:], stroke, s.Stroke)
	}

	if c := f.Chrome; c != nil {
		var outline [4]Vec2
		for i, p := range c.Outline {
			outline[i] = toPixels(p)
		}
		strokePolygon(dst, outline[:], ratio, ColorDefault)
		half := anchorSize / 2 * ratio
		for _, a := range c.Anchors {
			p := toPixels(a.Pos)
			sq := []Vec2{{p.X - half, p.Y - half}, {p.X + half, p.Y - half}, {p.X + half, p.Y + half}, {p.X - half, p.Y + half}}
			fillPolygon(dst, sq, ColorWhite)
			strokePolygon(dst, sq, ratio, ColorDefault)
		}
		d := toPixels(c.DeletePos)
		drawLabel(dst, "x", d, ColorAlert)
	}
	for _, s := range f.Shapes {
		if s.Label != "" {
			drawLabel(dst, s.Label, toPixels(s.LabelPos), ColorWhite)
		}
	}
	return dst, nil
}

// fillPolygon fills a closed polygon with c using source-over compositing.
func fillPolygon(dst *image.NRGBA, pts []Vec2, c Color) {
	if len(pts) < 3 || c.A <= 0 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c.NRGBA()), image.Point{})
}

// strokePolygon draws the closed outline of pts as one quad per edge.
func strokePolygon(dst *image.NRGBA, pts []Vec2, width float64, c Color) {
	if len(pts) < 2 || width <= 0 || c.A <= 0 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2
	for i := range pts {
		a, e := pts[i], pts[(i+1)%len(pts)]
		d := e.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		// Edge normal scaled to half the stroke width.
		n := Vec2{-d.Y / l * half, d.X / l * half}
		// Extend along the edge so corners are filled.
		t := Vec2{d.X / l * half, d.Y / l * half}
		p0 := a.Sub(t).Add(n)
		p1 := e.Add(t).Add(n)
		p2 := e.Add(t).Sub(n)
		p3 := a.Sub(t).Sub(n)
		z.MoveTo(float32(p0.X), float32(p0.Y))
		z.LineTo(float32(p1.X), float32(p1.Y))
		z.LineTo(float32(p2.X), float32(p2.Y))
		z.LineTo(float32(p3.X), float32(p3.Y))
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(c.NRGBA()), image.Point{})
}

// drawLabel draws text with its baseline starting at p.
func drawLabel(dst *image.NRGBA, text string, p Vec2, c Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.NRGBA()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(p.X)), int(math.Round(p.Y))),
	}
	d.DrawString(text)
}

package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/boxmark"
)

const strokeWidth = 2.0

// --- White pixel singleton (ebiten is single-threaded here) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source of every untextured quad.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Renderer draws boxmark frames with ebiten. Quads are accumulated and
// submitted in one DrawTriangles32 call per layer.
type Renderer struct {
	verts []ebiten.Vertex
	inds  []uint32

	bgSrc *boxmark.Background
	bgImg *ebiten.Image
}

// NewRenderer returns an empty renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Draw renders f onto dst. ratio scales screen coordinates, 1 for the window.
func (r *Renderer) Draw(dst *ebiten.Image, f boxmark.Frame, ratio float64) {
	toPixels := func(p boxmark.Vec2) boxmark.Vec2 {
		return f.Viewport.WorldToScreen(p).Scale(ratio)
	}

	if bg := f.Background; bg != nil && bg.Image != nil {
		img := r.backgroundImage(bg)
		b := img.Bounds()
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(bg.Bounds.Width/float64(b.Dx()), bg.Bounds.Height/float64(b.Dy()))
		op.GeoM.Translate(bg.Bounds.X, bg.Bounds.Y)
		op.GeoM.Scale(f.Viewport.Scale, f.Viewport.Scale)
		op.GeoM.Translate(f.Viewport.Offset.X, f.Viewport.Offset.Y)
		op.GeoM.Scale(ratio, ratio)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, &op)
	}

	sw := strokeWidth * ratio
	for _, s := range f.Shapes {
		var pts [4]boxmark.Vec2
		for i, c := range s.Corners {
			pts[i] = toPixels(c)
		}
		r.quad(pts, s.Fill)
		r.outline(pts[:], sw, s.Stroke)
	}
	r.flush(dst)

	if c := f.Chrome; c != nil {
		var outline [4]boxmark.Vec2
		for i, p := range c.Outline {
			outline[i] = toPixels(p)
		}
		r.outline(outline[:], ratio, boxmark.ColorDefault)
		r.flush(dst)

		half := c.AnchorSize * f.Viewport.Scale * ratio / 2
		for _, a := range c.Anchors {
			p := toPixels(a.Pos)
			sq := [4]boxmark.Vec2{{X: p.X - half, Y: p.Y - half}, {X: p.X + half, Y: p.Y - half}, {X: p.X + half, Y: p.Y + half}, {X: p.X - half, Y: p.Y + half}}
			r.quad(sq, boxmark.ColorWhite)
			r.outline(sq[:], ratio, boxmark.ColorDefault)
		}
		r.flush(dst)
		d := toPixels(c.DeletePos)
		ebitenutil.DebugPrintAt(dst, "[x]", int(d.X)-8, int(d.Y)+8)
	}

	for _, s := range f.Shapes {
		if s.Label == "" {
			continue
		}
		p := toPixels(s.LabelPos)
		ebitenutil.DebugPrintAt(dst, s.Label, int(p.X), int(p.Y))
	}
}

// backgroundImage uploads the background to the GPU once per background.
func (r *Renderer) backgroundImage(bg *boxmark.Background) *ebiten.Image {
	if r.bgSrc != bg || r.bgImg == nil {
		if r.bgImg != nil {
			r.bgImg.Deallocate()
		}
		r.bgImg = ebiten.NewImageFromImage(bg.Image)
		r.bgSrc = bg
	}
	return r.bgImg
}

// quad appends a filled quadrilateral in pixel coordinates.
func (r *Renderer) quad(pts [4]boxmark.Vec2, c boxmark.Color) {
	if c.A <= 0 {
		return
	}
	// Premultiplied vertex colors.
	cr, cg, cb, ca := float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A)
	base := uint32(len(r.verts))
	for _, p := range pts {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	r.inds = append(r.inds, base, base+1, base+2, base, base+2, base+3)
}

// outline appends one quad per edge of the closed polygon pts.
func (r *Renderer) outline(pts []boxmark.Vec2, width float64, c boxmark.Color) {
	half := width / 2
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		d := b.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		n := boxmark.Vec2{X: -d.Y / l * half, Y: d.X / l * half}
		t := boxmark.Vec2{X: d.X / l * half, Y: d.Y / l * half}
		r.quad([4]boxmark.Vec2{
			a.Sub(t).Add(n),
			b.Add(t).Add(n),
			b.Add(t).Sub(n),
			a.Sub(t).Sub(n),
		}, c)
	}
}

// flush submits accumulated quads as a single DrawTriangles32 call.
func (r *Renderer) flush(dst *ebiten.Image) {
	if len(r.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(r.verts, r.inds, ensureWhitePixel(), &op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// Capturer renders frames into an offscreen ebiten image and reads the pixels
// back. It implements boxmark.Capturer and must run on the game goroutine
// after the game loop has started.
type Capturer struct {
	Renderer   *Renderer
	PixelRatio float64
}

// Capture implements boxmark.Capturer.
func (c Capturer) Capture(f boxmark.Frame) (image.Image, error) {
	ratio := c.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Round(f.Canvas.X * ratio))
	h := int(math.Round(f.Canvas.Y * ratio))
	if w <= 0 || h <= 0 {
		return nil, errEmptyCapture
	}
	target := ebiten.NewImage(w, h)
	defer target.Deallocate()
	target.Fill(color.White)
	rd := c.Renderer
	if rd == nil {
		rd = NewRenderer()
	}
	rd.Draw(target, f, ratio)

	pixels := make([]byte, 4*w*h)
	target.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img, nil
}

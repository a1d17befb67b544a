package boxmark

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Background is the image annotations are drawn over, letterboxed into the
// canvas. Bounds is its placement in world coordinates.
type Background struct {
	Image  image.Image
	Format string
	Bounds Rect

	resampled image.Image
	resW      int
	resH      int
}

// Letterbox fits an imgW x imgH image into a canvasW x canvasH canvas with
// scale = min(canvasW/imgW, canvasH/imgH), centered.
func Letterbox(imgW, imgH, canvasW, canvasH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{}
	}
	scale := math.Min(canvasW/imgW, canvasH/imgH)
	w, h := imgW*scale, imgH*scale
	return Rect{X: (canvasW - w) / 2, Y: (canvasH - h) / 2, Width: w, Height: h}
}

// NewBackground places img into the canvas.
func NewBackground(img image.Image, canvasW, canvasH float64) *Background {
	b := img.Bounds()
	return &Background{
		Image:  img,
		Bounds: Letterbox(float64(b.Dx()), float64(b.Dy()), canvasW, canvasH),
	}
}

// LoadBackground decodes an image in any registered format (PNG, JPEG, GIF,
// WebP, BMP, TIFF) and places it into the canvas.
func LoadBackground(r io.Reader, canvasW, canvasH float64) (*Background, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("boxmark: decode background: %w", err)
	}
	bg := NewBackground(img, canvasW, canvasH)
	bg.Format = format
	return bg, nil
}

// Contains reports whether the world point p falls on the image.
func (b *Background) Contains(p Vec2) bool {
	return b != nil && b.Bounds.Width > 0 && b.Bounds.Contains(p.X, p.Y)
}

// Resampled returns the image resized to w x h pixels with Lanczos
// filtering. The last result is cached.
func (b *Background) Resampled(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	if b.resampled != nil && b.resW == w && b.resH == h {
		return b.resampled
	}
	src := b.Image.Bounds()
	if src.Dx() == w && src.Dy() == h {
		b.resampled = b.Image
	} else {
		b.resampled = imaging.Resize(b.Image, w, h, imaging.Lanczos)
	}
	b.resW, b.resH = w, h
	return b.resampled
}

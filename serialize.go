package boxmark

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ExportJSON writes the whole store as a JSON array of rectangles, in store
// order.
func (e *Editor) ExportJSON(w io.Writer) error {
	data, err := json.Marshal(e.store.List())
	if err != nil {
		return fmt.Errorf("boxmark: export shapes: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("boxmark: export shapes: %w", err)
	}
	return nil
}

// ImportJSON replaces the store with the JSON array read from r. Elements
// are taken as-is; missing fields are zero. Valid JSON is still refused when
// the top level is not an array or a field has the wrong type (a string
// width, say). On any read or parse error the error is logged and returned
// and the store is left untouched.
func (e *Editor) ImportJSON(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		logf("import shapes: %v", err)
		return fmt.Errorf("boxmark: import shapes: %w", err)
	}
	rects, err := decodeShapes(data)
	if err != nil {
		logf("import shapes: %v", err)
		return fmt.Errorf("boxmark: import shapes: %w", err)
	}
	if dups := DuplicateIDs(rects); len(dups) > 0 {
		logf("warning: imported shapes reuse ids %v; edits apply to the first match", dups)
	}
	e.store.ReplaceAll(rects)
	e.debugf("imported %d shapes", len(rects))
	return nil
}

var errNotArray = errors.New("expected a JSON array")

func decodeShapes(data []byte) ([]Rectangle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var rects []Rectangle
	if err := json.Unmarshal(trimmed, &rects); err != nil {
		return nil, err
	}
	if rects == nil {
		rects = []Rectangle{}
	}
	return rects, nil
}

// CaptureRaster renders the scene at scale 1 and the origin using c, then
// restores the previous viewport, even when capture fails. Chrome is not
// included.
func (e *Editor) CaptureRaster(c Capturer) (image.Image, error) {
	if c == nil {
		c = e.capturer
	}
	restore := e.view.swap(IdentityViewport)
	defer restore()
	img, err := c.Capture(e.Frame(false))
	if err != nil {
		logf("raster export: %v", err)
		return nil, fmt.Errorf("boxmark: capture raster: %w", err)
	}
	return img, nil
}

// ExportRaster writes a PNG of the full canvas, independent of the current
// pan and zoom. A nil capturer uses the editor's own.
func (e *Editor) ExportRaster(w io.Writer, c Capturer) error {
	img, err := e.CaptureRaster(c)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("boxmark: encode raster: %w", err)
	}
	return nil
}

package boxmark

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshot queues a labeled raster export. Queued snapshots are written
// at the end of the next Update as timestamped PNG files in the configured
// output directory.
func (e *Editor) Snapshot(label string) {
	e.snapshotQueue = append(e.snapshotQueue, label)
}

// flushSnapshots captures one raster for every queued label and writes it
// once per label.
func (e *Editor) flushSnapshots() {
	if len(e.snapshotQueue) == 0 {
		return
	}
	defer func() { e.snapshotQueue = e.snapshotQueue[:0] }()

	dir := e.cfg.Export.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logf("snapshot: mkdir %s: %v", dir, err)
		return
	}
	img, err := e.CaptureRaster(nil)
	if err != nil {
		return
	}
	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.snapshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			logf("snapshot: %v", err)
			continue
		}
		e.debugf("snapshot written to %s", path)
	}
}

// ExportPaths names the files written by WriteExports.
type ExportPaths struct {
	Shapes string
	Stage  string
}

// WriteExports writes the shapes JSON and the stage PNG into dir (the
// configured output directory when empty) with a shared timestamp, e.g.
// 20260102_150405_shapes.json and 20260102_150405_stage.png.
func (e *Editor) WriteExports(dir string) (ExportPaths, error) {
	if dir == "" {
		dir = e.cfg.Export.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportPaths{}, fmt.Errorf("boxmark: export: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	paths := ExportPaths{
		Shapes: filepath.Join(dir, stamp+"_shapes.json"),
		Stage:  filepath.Join(dir, stamp+"_stage.png"),
	}

	f, err := os.Create(paths.Shapes)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("boxmark: export: %w", err)
	}
	if err := e.ExportJSON(f); err != nil {
		f.Close()
		return ExportPaths{}, err
	}
	if err := f.Close(); err != nil {
		return ExportPaths{}, fmt.Errorf("boxmark: export: %w", err)
	}

	img, err := e.CaptureRaster(nil)
	if err != nil {
		return ExportPaths{Shapes: paths.Shapes}, err
	}
	if err := writePNG(paths.Stage, img); err != nil {
		return ExportPaths{Shapes: paths.Shapes}, fmt.Errorf("boxmark: export: %w", err)
	}
	logf("exported %d shapes to %s and %s", e.store.Len(), paths.Shapes, paths.Stage)
	return paths, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

package boxmark

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// startSession runs s until the test ends.
func startSession(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx, time.Millisecond)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSessionDoRunsOnOwner(t *testing.T) {
	s := NewSession(newTestEditor(t), 0)
	startSession(t, s)

	var id string
	err := s.Do(context.Background(), func(e *Editor) error {
		r, err := e.AddRectangle()
		id = r.ID
		return err
	})
	if err != nil || id != "rect1" {
		t.Fatalf("Do = %v, id %q", err, id)
	}

	boom := errors.New("boom")
	if err := s.Do(context.Background(), func(*Editor) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do err = %v, want boom", err)
	}
}

func TestSessionDoAfterClose(t *testing.T) {
	s := NewSession(newTestEditor(t), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
	s.Post(func(*Editor) {}) // must not block
	err := s.Do(context.Background(), func(*Editor) error { return nil })
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Do err = %v, want ErrSessionClosed", err)
	}
}

func TestSessionDoHonorsContext(t *testing.T) {
	s := NewSession(newTestEditor(t), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Nothing drains the queue, so the result never arrives.
	err := s.Do(ctx, func(*Editor) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do err = %v, want DeadlineExceeded", err)
	}
}

func TestSessionDrain(t *testing.T) {
	s := NewSession(newTestEditor(t), 4)
	for i := 0; i < 3; i++ {
		s.Post(func(e *Editor) { _, _ = e.AddRectangle() })
	}
	if n := s.Drain(); n != 3 {
		t.Errorf("Drain = %d, want 3", n)
	}
	if n := s.Drain(); n != 0 {
		t.Errorf("second Drain = %d, want 0", n)
	}
	if s.Editor().Store().Len() != 3 {
		t.Errorf("Len = %d", s.Editor().Store().Len())
	}
}

// drainUntil drains s until cond holds or the deadline passes.
func drainUntil(t *testing.T, s *Session, cond func(*Editor) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Drain()
		if cond(s.Editor()) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestReadFileAsync(t *testing.T) {
	fsys := fstest.MapFS{
		"shapes.json": {Data: []byte(`[{"id":"a","x":1,"y":2,"width":30,"height":40}]`)},
		"photo.png":   {Data: encodeTestPNG(t, 14, 8)},
	}
	s := NewSession(newTestEditor(t), 0)

	s.ReadFileAsync(fsys, "shapes.json", ApplyFile("shapes.json"))
	drainUntil(t, s, func(e *Editor) bool { return e.Store().Has("a") })

	s.ReadFileAsync(fsys, "photo.png", ApplyFile("photo.png"))
	drainUntil(t, s, func(e *Editor) bool { return e.Background() != nil })
	if b := s.Editor().Background().Bounds; b.Width != 1400 || b.Height != 800 {
		t.Errorf("background bounds = %+v", b)
	}
}

func TestReadFileAsyncMissingPostsNothing(t *testing.T) {
	s := NewSession(newTestEditor(t), 0)
	called := make(chan struct{}, 1)
	s.ReadFileAsync(fstest.MapFS{}, "nope.json", func(*Editor, []byte) error {
		called <- struct{}{}
		return nil
	})
	time.Sleep(20 * time.Millisecond)
	s.Drain()
	select {
	case <-called:
		t.Error("apply ran for a failed read")
	default:
	}
}

func TestReadAsync(t *testing.T) {
	s := NewSession(newTestEditor(t), 0)
	rc := io.NopCloser(strings.NewReader(`[{"id":"z"}]`))
	s.ReadAsync("drop.json", rc, ApplyFile("drop.json"))
	drainUntil(t, s, func(e *Editor) bool { return e.Store().Has("z") })
}

func TestApplyFileRoutesByExtension(t *testing.T) {
	e := newTestEditor(t)
	if err := ApplyFile("SHAPES.JSON")(e, []byte(`[{"id":"up"}]`)); err != nil {
		t.Fatal(err)
	}
	if !e.Store().Has("up") {
		t.Error("uppercase .JSON not imported")
	}
	err := ApplyFile("broken.png")(e, []byte("junk"))
	if err == nil || !strings.Contains(err.Error(), "broken.png") {
		t.Errorf("err = %v, want mentioning the file", err)
	}
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "bg.png")
	shapes := filepath.Join(dir, "shapes.json")
	_ = os.WriteFile(img, encodeTestPNG(t, 10, 10), 0o644)
	_ = os.WriteFile(shapes, []byte(`[{"id":"p","width":10,"height":10}]`), 0o644)

	e := newTestEditor(t)
	if err := LoadPaths(e, img, shapes); err != nil {
		t.Fatal(err)
	}
	if e.Background() == nil || !e.Store().Has("p") {
		t.Error("paths not loaded")
	}
	if err := LoadPaths(newTestEditor(t), "", ""); err != nil {
		t.Errorf("empty paths err = %v", err)
	}
	if err := LoadPaths(newTestEditor(t), filepath.Join(dir, "missing.png"), ""); err == nil {
		t.Error("missing image accepted")
	}
}

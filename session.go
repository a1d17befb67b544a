package boxmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"
)

// ErrSessionClosed is returned by Do when the session loop has stopped.
var ErrSessionClosed = errors.New("boxmark: session closed")

// Session hands work from other goroutines to the goroutine that owns an
// Editor. The owner either runs Run or calls Drain once per frame.
type Session struct {
	editor *Editor
	queue  chan func(*Editor)
	done   chan struct{}
}

// NewSession wraps e. queueSize bounds how many posted closures may wait.
func NewSession(e *Editor, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Session{
		editor: e,
		queue:  make(chan func(*Editor), queueSize),
		done:   make(chan struct{}),
	}
}

// Post queues fn to run on the owning goroutine. It blocks while the queue
// is full and drops fn once the session is closed.
func (s *Session) Post(fn func(*Editor)) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Do runs fn on the owning goroutine and waits for its result.
func (s *Session) Do(ctx context.Context, fn func(*Editor) error) error {
	result := make(chan error, 1)
	select {
	case s.queue <- func(e *Editor) { result <- fn(e) }:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every queued closure without blocking. Front ends call it once
// per frame from their update loop.
func (s *Session) Drain() int {
	n := 0
	for {
		select {
		case fn := <-s.queue:
			fn(s.editor)
			n++
		default:
			return n
		}
	}
}

// Run owns the editor until ctx is done: it runs posted closures and ticks
// Editor.Update at the given interval. Headless servers use it in place of a
// window loop.
func (s *Session) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = time.Second / 60
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	defer close(s.done)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.queue:
			fn(s.editor)
		case now := <-t.C:
			s.editor.Update(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
}

// ReadFileAsync reads name from fsys on a new goroutine and posts apply with
// the contents when the read succeeds. A failed read is logged and nothing is
// posted.
func (s *Session) ReadFileAsync(fsys fs.FS, name string, apply func(e *Editor, data []byte) error) {
	go func() {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logf("read %s: %v", name, err)
			return
		}
		s.Post(func(e *Editor) {
			if err := apply(e, data); err != nil {
				logf("apply %s: %v", name, err)
			}
		})
	}()
}

// ReadAsync drains r on a new goroutine and posts apply with the contents.
// r is closed when it implements io.Closer.
func (s *Session) ReadAsync(name string, r io.Reader, apply func(e *Editor, data []byte) error) {
	go func() {
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		data, err := io.ReadAll(r)
		if err != nil {
			logf("read %s: %v", name, err)
			return
		}
		s.Post(func(e *Editor) {
			if err := apply(e, data); err != nil {
				logf("apply %s: %v", name, err)
			}
		})
	}()
}

// Editor returns the wrapped editor. Only the owning goroutine may use it.
func (s *Session) Editor() *Editor {
	return s.editor
}

// ApplyFile routes the contents of a dropped or opened file by name: ".json"
// files import shapes, anything else is decoded as a background image.
func ApplyFile(name string) func(e *Editor, data []byte) error {
	return func(e *Editor, data []byte) error {
		if strings.EqualFold(path.Ext(name), ".json") {
			return e.Apply(ImportShapes{Data: data})
		}
		if err := e.LoadBackground(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		return nil
	}
}

// LoadPaths synchronously loads a background image and a shapes JSON file
// into e. Empty paths are skipped.
func LoadPaths(e *Editor, imagePath, shapesPath string) error {
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("boxmark: %w", err)
		}
		err = e.LoadBackground(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	if shapesPath != "" {
		data, err := os.ReadFile(shapesPath)
		if err != nil {
			return fmt.Errorf("boxmark: %w", err)
		}
		if err := e.Apply(ImportShapes{Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// Package server exposes a boxmark session over HTTP with fiber.
//
// Every handler hands its work to the session, so editor state is only ever
// touched by the goroutine that owns it.
package server

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/phanxgames/boxmark"
)

// DefaultRequestTimeout bounds how long a handler waits for the editor.
const DefaultRequestTimeout = 5 * time.Second

// Server is the HTTP API over one session.
type Server struct {
	app     *fiber.App
	session *boxmark.Session
	timeout time.Duration
}

// New builds the API for session with the server settings from cfg.
func New(session *boxmark.Session, cfg boxmark.Config) *Server {
	s := &Server{
		session: session,
		timeout: DefaultRequestTimeout,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		AppName:      "boxmark",
		BodyLimit:    32 << 20,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(Logger())
	app.Use(CORS())

	// ============================================================
	// Routes
	// ============================================================

	app.Get("/health", s.health)

	app.Get("/shapes", s.exportShapes)
	app.Put("/shapes", s.importShapes)
	app.Post("/shapes", s.addShape)
	app.Delete("/shapes/:id", s.removeShape)
	app.Post("/shapes/:id/highlight", s.highlight)
	app.Post("/shapes/:id/select", s.selectShape)
	app.Post("/alerts", s.markAlerts)
	app.Post("/edit/toggle", s.toggleEdit)

	app.Get("/snapshot.png", s.snapshot)
	app.Put("/background", s.putBackground)

	app.Get("/viewport", s.viewport)
	app.Post("/viewport/zoom", s.zoom)
	app.Post("/viewport/reset", s.resetView)

	s.app = app
	return s
}

// App returns the fiber application, for tests and custom listeners.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Infof("boxmark API listening on %s", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server, waiting up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// do runs fn on the editor goroutine with the request timeout.
func (s *Server) do(fn func(e *boxmark.Editor) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.session.Do(ctx, fn)
}

// fail writes err as a JSON error body with a status derived from it.
func fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("request %s: %v", requestID(c), err)
	} else {
		log.Warnf("request %s: %v", requestID(c), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, boxmark.ErrShapeNotFound):
		return http.StatusNotFound
	case errors.Is(err, boxmark.ErrDuplicateID), errors.Is(err, boxmark.ErrNotEditable):
		return http.StatusConflict
	case errors.Is(err, errBadRequest), errors.Is(err, boxmark.ErrInvalidScale):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, boxmark.ErrSessionClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// badRequest marks err as a client error.
func badRequest(err error) error {
	return errors.Join(errBadRequest, err)
}

// viewportPayload is the JSON form of a viewport.
type viewportPayload struct {
	Scale     float64 `json:"scale"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	Animating bool    `json:"animating"`
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (s *Server) exportShapes(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.do(func(e *boxmark.Editor) error { return e.ExportJSON(&buf) }); err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shapes.json"`)
	return c.Send(buf.Bytes())
}

func (s *Server) importShapes(c fiber.Ctx) error {
	body := bytes.Clone(c.Body())
	var count int
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.Apply(boxmark.ImportShapes{Data: body}); err != nil {
			return badRequest(err)
		}
		count = e.Store().Len()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) addShape(c fiber.Ctx) error {
	var added boxmark.Rectangle
	err := s.do(func(e *boxmark.Editor) error {
		r, err := e.AddRectangle()
		added = r
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(added)
}

func (s *Server) removeShape(c fiber.Ctx) error {
	id := c.Params("id")
	var removed bool
	if err := s.do(func(e *boxmark.Editor) error {
		removed = e.RemoveShape(id)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	if !removed {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "shape " + id + " not found"})
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) highlight(c fiber.Ctx) error {
	id := c.Params("id")
	if err := s.do(func(e *boxmark.Editor) error { return e.Apply(boxmark.Highlight{ID: id}) }); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"highlighted": id})
}

func (s *Server) selectShape(c fiber.Ctx) error {
	id := c.Params("id")
	if err := s.do(func(e *boxmark.Editor) error { return e.Apply(boxmark.SelectShape{ID: id}) }); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"selected": id})
}

func (s *Server) toggleEdit(c fiber.Ctx) error {
	var editable bool
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.Apply(boxmark.ToggleEditable{}); err != nil {
			return err
		}
		editable = e.Editable()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"editable": editable})
}

func (s *Server) markAlerts(c fiber.Ctx) error {
	var shapes []boxmark.Rectangle
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.Apply(boxmark.MarkAlerts{}); err != nil {
			return err
		}
		shapes = e.Store().List()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(shapes)
}

// snapshot renders the canvas as PNG. By default the export resets the view
// to scale 1 at the origin; ?view=current renders what the editor shows,
// including handles when ?chrome=1.
func (s *Server) snapshot(c fiber.Ctx) error {
	current := c.Query("view") == "current"
	chrome := c.Query("chrome") == "1"
	var buf bytes.Buffer
	err := s.do(func(e *boxmark.Editor) error {
		if !current {
			return e.ExportRaster(&buf, nil)
		}
		img, err := boxmark.Rasterizer{PixelRatio: e.Config().Export.PixelRatio}.Capture(e.Frame(chrome))
		if err != nil {
			return err
		}
		return png.Encode(&buf, img)
	})
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) putBackground(c fiber.Ctx) error {
	body := bytes.Clone(c.Body())
	if len(body) == 0 {
		return fail(c, badRequest(errors.New("empty body")))
	}
	var bounds boxmark.Rect
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.LoadBackground(bytes.NewReader(body)); err != nil {
			return badRequest(err)
		}
		bounds = e.Background().Bounds
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"x":      bounds.X,
		"y":      bounds.Y,
		"width":  bounds.Width,
		"height": bounds.Height,
	})
}

func (s *Server) viewport(c fiber.Ctx) error {
	var p viewportPayload
	if err := s.do(func(e *boxmark.Editor) error {
		p = payloadOf(e)
		return nil
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (s *Server) zoom(c fiber.Ctx) error {
	dir := 1
	if c.Query("dir") == "out" {
		dir = -1
	}
	var p viewportPayload
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.Apply(boxmark.ZoomStep{Dir: dir}); err != nil {
			return err
		}
		p = payloadOf(e)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (s *Server) resetView(c fiber.Ctx) error {
	var p viewportPayload
	err := s.do(func(e *boxmark.Editor) error {
		if err := e.Apply(boxmark.ResetView{}); err != nil {
			return err
		}
		p = payloadOf(e)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func payloadOf(e *boxmark.Editor) viewportPayload {
	vp := e.Viewport()
	return viewportPayload{
		Scale:     vp.Scale,
		OffsetX:   vp.Offset.X,
		OffsetY:   vp.Offset.Y,
		Animating: e.ViewportController().Animating(),
	}
}

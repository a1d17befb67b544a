// Package game is the ebiten front end of boxmark: a window with the
// annotation canvas, a toolbar row of keyboard shortcuts and the shape list
// panel.
package game

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/boxmark"
)

// PanelWidth is the width of the shape list to the right of the canvas.
const PanelWidth = 280

const (
	listTop        = 40
	listLineHeight = 16
	listEntryLines = 2
	listEntryGap   = 6
)

var errEmptyCapture = errors.New("game: capture size is empty")

var (
	panelBackground = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	canvasBorder    = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// Game implements ebiten.Game over a boxmark session.
type Game struct {
	session  *boxmark.Session
	editor   *boxmark.Editor
	renderer *Renderer
	fps      *fpsOverlay
	keys     []shortcut
	status   string

	quitOnScriptEnd bool
}

// Options configures New.
type Options struct {
	// ShowFPS draws the FPS/TPS overlay in the top-left corner.
	ShowFPS bool
	// QuitOnScriptEnd ends the game loop once an attached script is done.
	QuitOnScriptEnd bool
}

// New creates a game driving the session's editor. The editor's raster
// capturer is replaced with a GPU capturer.
func New(session *boxmark.Session, opts Options) *Game {
	e := session.Editor()
	g := &Game{
		session:         session,
		editor:          e,
		renderer:        NewRenderer(),
		quitOnScriptEnd: opts.QuitOnScriptEnd,
	}
	if opts.ShowFPS {
		g.fps = newFPSOverlay()
	}
	e.SetCapturer(Capturer{Renderer: NewRenderer(), PixelRatio: e.Config().Export.PixelRatio})
	g.keys = defaultShortcuts()
	return g
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run(title string) error {
	cfg := g.editor.Config()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(cfg.Canvas.Width)+PanelWidth, int(cfg.Canvas.Height))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	g.session.Drain()
	g.loadDroppedFiles()
	g.handleKeys()
	if !g.editor.Scripted() {
		g.handleMouse()
	}
	g.editor.Update(dt)
	if g.fps != nil {
		g.fps.update(float64(dt))
	}
	if g.quitOnScriptEnd && !g.editor.Scripted() {
		return ebiten.Termination
	}
	return nil
}

// handleMouse feeds the real cursor into the editor. Presses over the list
// panel highlight an entry instead.
func (g *Game) handleMouse() {
	cfg := g.editor.Config()
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if float64(mx) >= cfg.Canvas.Width {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.clickList(my)
		}
		// Let an in-flight gesture finish when the pointer leaves the canvas.
		if !pressed {
			g.editor.HandlePointer(boxmark.Vec2{X: float64(mx), Y: float64(my)}, false, boxmark.MouseButtonLeft)
		}
		return
	}

	g.editor.HandlePointer(boxmark.Vec2{X: float64(mx), Y: float64(my)}, pressed, boxmark.MouseButtonLeft)
	if _, wy := ebiten.Wheel(); wy != 0 {
		// ebiten reports scrolling up as positive; a positive delta zooms out.
		_ = g.editor.HandleWheel(-wy)
	}
}

// clickList highlights the list entry under a panel y coordinate.
func (g *Game) clickList(y int) {
	if y < listTop {
		return
	}
	i := (y - listTop) / (listEntryLines*listLineHeight + listEntryGap)
	entries := g.editor.ListEntries()
	if i < 0 || i >= len(entries) {
		return
	}
	if err := g.editor.Apply(boxmark.Highlight{ID: entries[i].ID}); err != nil {
		g.status = err.Error()
	}
}

// loadDroppedFiles reads files dropped on the window in the background and
// applies them on the game loop when the read completes.
func (g *Game) loadDroppedFiles() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	entries, err := fs.ReadDir(dropped, ".")
	if err != nil {
		g.status = fmt.Sprintf("drop: %v", err)
		return
	}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		g.status = "loading " + name
		g.session.ReadFileAsync(dropped, name, boxmark.ApplyFile(name))
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	cfg := g.editor.Config()
	screen.Fill(color.White)
	canvas := screen.SubImage(image.Rect(0, 0, int(cfg.Canvas.Width), int(cfg.Canvas.Height))).(*ebiten.Image)
	g.renderer.Draw(canvas, g.editor.Frame(true), 1)
	g.drawPanel(screen, int(cfg.Canvas.Width))
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// drawPanel draws the toolbar hints and the shape list.
func (g *Game) drawPanel(screen *ebiten.Image, x int) {
	b := screen.Bounds()
	panel := screen.SubImage(image.Rect(x, 0, b.Dx(), b.Dy())).(*ebiten.Image)
	panel.Fill(panelBackground)
	line := screen.SubImage(image.Rect(x, 0, x+1, b.Dy())).(*ebiten.Image)
	line.Fill(canvasBorder)

	mode := "edit: on"
	if !g.editor.Editable() {
		mode = "edit: off"
	}
	vp := g.editor.Viewport()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  zoom: %.0f%%", mode, vp.Scale*100), x+8, 4)
	ebitenutil.DebugPrintAt(screen, shortcutHelp(g.keys), x+8, b.Dy()-listLineHeight*(len(g.keys)+2))
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, x+8, 20)
	}

	y := listTop
	for _, ent := range g.editor.ListEntries() {
		marker := "  "
		switch {
		case ent.Highlighted:
			marker = "> "
		case ent.Alert:
			marker = "! "
		}
		ebitenutil.DebugPrintAt(screen, marker+ent.Primary, x+8, y)
		ebitenutil.DebugPrintAt(screen, "  "+ent.Secondary, x+8, y+listLineHeight)
		y += listEntryLines*listLineHeight + listEntryGap
		if y > b.Dy()-listLineHeight*(len(g.keys)+3) {
			break
		}
	}
}

// Layout implements ebiten.Game. The logical size is fixed: canvas plus
// panel.
func (g *Game) Layout(_, _ int) (int, int) {
	cfg := g.editor.Config()
	return int(cfg.Canvas.Width) + PanelWidth, int(cfg.Canvas.Height)
}

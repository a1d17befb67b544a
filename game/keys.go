package game

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/boxmark"
)

// shortcut binds a key to one toolbar action.
type shortcut struct {
	key   ebiten.Key
	label string
	run   func(g *Game) error
}

func defaultShortcuts() []shortcut {
	return []shortcut{
		{ebiten.KeyA, "A add rectangle", func(g *Game) error { return g.editor.Apply(boxmark.AddRectangle{}) }},
		{ebiten.KeyE, "E toggle edit", func(g *Game) error { return g.editor.Apply(boxmark.ToggleEditable{}) }},
		{ebiten.KeyM, "M mark alerts", func(g *Game) error { return g.editor.Apply(boxmark.MarkAlerts{}) }},
		{ebiten.KeyEqual, "+ zoom in", func(g *Game) error { return g.editor.Apply(boxmark.ZoomStep{Dir: 1}) }},
		{ebiten.KeyMinus, "- zoom out", func(g *Game) error { return g.editor.Apply(boxmark.ZoomStep{Dir: -1}) }},
		{ebiten.KeyDigit0, "0 reset view", func(g *Game) error { return g.editor.Apply(boxmark.ResetView{}) }},
		{ebiten.KeyDelete, "Del remove selected", removeSelected},
		{ebiten.KeyS, "S export json+png", exportFiles},
		{ebiten.KeyP, "P snapshot", func(g *Game) error { g.editor.Snapshot("stage"); return nil }},
	}
}

func removeSelected(g *Game) error {
	id, ok := g.editor.Selection().ID()
	if !ok {
		return nil
	}
	return g.editor.Apply(boxmark.RemoveShape{ID: id})
}

func exportFiles(g *Game) error {
	paths, err := g.editor.WriteExports("")
	if err != nil {
		return err
	}
	g.status = "saved " + paths.Shapes
	return nil
}

// handleKeys runs the action of every shortcut pressed this frame.
func (g *Game) handleKeys() {
	for _, s := range g.keys {
		if !inpututil.IsKeyJustPressed(s.key) {
			continue
		}
		if err := s.run(g); err != nil {
			g.status = err.Error()
		}
	}
}

func shortcutHelp(keys []shortcut) string {
	lines := make([]string, len(keys))
	for i, s := range keys {
		lines[i] = s.label
	}
	return strings.Join(lines, "\n")
}

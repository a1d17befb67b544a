package boxmark

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLoadScriptRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", `{"steps":`, "parse script"},
		{"empty", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"add"},{"action":"teleport"}]}`, `step 1: unknown action "teleport"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mentioning %q", err, tt.want)
			}
		})
	}
}

// runScript drives e until its runner finishes, failing after limit frames.
func runScript(t *testing.T, e *Editor, data string, limit int) *ScriptRunner {
	t.Helper()
	r, err := LoadScript([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	e.SetScriptRunner(r)
	for i := 0; i < limit && !r.Done(); i++ {
		if !e.Scripted() {
			t.Fatal("editor not scripted while the runner is active")
		}
		e.Update(1.0 / 60)
	}
	if !r.Done() {
		t.Fatalf("script not done after %d frames", limit)
	}
	if e.Scripted() {
		t.Error("editor still scripted after the runner finished")
	}
	return r
}

func TestScriptAddClickDrag(t *testing.T) {
	e := newTestEditor(t)
	r := runScript(t, e, `{"steps":[
		{"action":"add"},
		{"action":"click","x":700,"y":400},
		{"action":"drag","fromX":700,"fromY":400,"toX":720,"toY":390,"frames":4}
	]}`, 50)
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	got, ok := e.Store().Get("rect1")
	if !ok {
		t.Fatal("rect1 missing")
	}
	assertNear(t, "x", got.X, 670)
	assertNear(t, "y", got.Y, 340)
	if !e.Selection().IsSelected("rect1") {
		t.Error("rect1 not selected")
	}
}

func TestScriptCommandsAndErrors(t *testing.T) {
	e := newTestEditor(t)
	r := runScript(t, e, `{"steps":[
		{"action":"add"},
		{"action":"add"},
		{"action":"alerts"},
		{"action":"highlight","id":"rect1"},
		{"action":"select","id":"nope"},
		{"action":"zoom","dir":1},
		{"action":"wait","frames":3},
		{"action":"remove","id":"rect1"},
		{"action":"toggle-edit"}
	]}`, 50)

	err := r.Err()
	if !errors.Is(err, ErrShapeNotFound) || !strings.Contains(err.Error(), "step 4") {
		t.Errorf("Err = %v, want step 4 shape not found", err)
	}
	if e.Store().Len() != 1 || !e.Store().At(0).Alerted() {
		t.Errorf("store = %+v", e.Store().List())
	}
	assertNear(t, "scale", e.Viewport().Scale, ZoomFactor)
	if e.Editable() {
		t.Error("edit mode still on")
	}
	if e.Highlighted() != "" {
		t.Error("highlight survived removal")
	}
}

func TestScriptWheelAnchorsAtPosition(t *testing.T) {
	e := newTestEditor(t)
	runScript(t, e, `{"steps":[{"action":"wheel","x":100,"y":50,"delta":-1}]}`, 10)
	assertNear(t, "scale", e.Viewport().Scale, 1.1)
	assertVec(t, "offset", e.Viewport().Offset, Vec2{-10, -5})
}

func TestScriptSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.OutputDir = t.TempDir()
	e := NewEditor(cfg)
	runScript(t, e, `{"steps":[{"action":"add"},{"action":"snapshot","label":"after add"}]}`, 10)

	entries, err := os.ReadDir(cfg.Export.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_after_add.png") {
		t.Errorf("output = %v, want one *_after_add.png", entries)
	}
}

func TestInjectDragInterpolates(t *testing.T) {
	e := newTestEditor(t)
	e.InjectDrag(Vec2{0, 0}, Vec2{30, 60}, 5)
	if e.PendingInjected() != 5 {
		t.Fatalf("PendingInjected = %d, want 5", e.PendingInjected())
	}
	want := []Vec2{{0, 0}, {7.5, 15}, {15, 30}, {30, 60}}
	for _, p := range want[:3] {
		e.ProcessInjected()
		if got, _ := e.LastPointer(); got != p {
			t.Errorf("pointer = %v, want %v", got, p)
		}
	}
	e.DrainInjected()
	if got, _ := e.LastPointer(); got != want[3] {
		t.Errorf("final pointer = %v", got)
	}
	if e.ProcessInjected() {
		t.Error("ProcessInjected consumed from an empty queue")
	}
	// Pressed from the background, so the view followed the drag.
	assertVec(t, "offset", e.Viewport().Offset, Vec2{30, 60})
}

func TestInjectDragMinimumFrames(t *testing.T) {
	e := newTestEditor(t)
	e.InjectDrag(Vec2{0, 0}, Vec2{5, 5}, 0)
	if e.PendingInjected() != 2 {
		t.Errorf("PendingInjected = %d, want 2", e.PendingInjected())
	}
}

package boxmark

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Dir    int     `json:"dir,omitempty"`
	ID     string  `json:"id,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"press": true, "move": true, "release": true, "click": true, "drag": true,
	"wheel": true, "zoom": true, "add": true, "remove": true, "select": true,
	"toggle-edit": true, "alerts": true, "highlight": true, "reset-view": true,
	"wait": true, "snapshot": true,
}

// ScriptRunner sequences injected input, editor commands and raster
// snapshots across frames. Attach it with Editor.SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadScript parses a JSON input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("boxmark: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("boxmark: parse script: no steps")
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("boxmark: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a script. Its steps advance from Editor.Update.
func (e *Editor) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether every step has run and all injected input drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Err returns the command errors collected while running, joined.
func (r *ScriptRunner) Err() error {
	return errors.Join(r.errs...)
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Let injected input drain before advancing.
	if e.ProcessInjected() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		e.InjectPress(st.X, st.Y)
	case "move":
		e.InjectMove(st.X, st.Y)
	case "release":
		e.InjectRelease(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, max(st.Frames, 2))
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.Delta)
	case "zoom":
		r.apply(e, ZoomStep{Dir: st.Dir})
	case "add":
		r.apply(e, AddRectangle{})
	case "remove":
		r.apply(e, RemoveShape{ID: st.ID})
	case "select":
		r.apply(e, SelectShape{ID: st.ID})
	case "toggle-edit":
		r.apply(e, ToggleEditable{})
	case "alerts":
		r.apply(e, MarkAlerts{})
	case "highlight":
		r.apply(e, Highlight{ID: st.ID})
	case "reset-view":
		r.apply(e, ResetView{})
	case "snapshot":
		e.Snapshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) apply(e *Editor, cmd Command) {
	if err := e.Apply(cmd); err != nil {
		r.errs = append(r.errs, fmt.Errorf("step %d: %w", r.cursor-1, err))
	}
}

// Scripted reports whether a script or injected input currently drives the
// pointer. Front ends skip real mouse input while it does.
func (e *Editor) Scripted() bool {
	return len(e.injectQueue) > 0 || (e.runner != nil && !e.runner.done)
}

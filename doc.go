// Package boxmark is the core of an interactive bounding-box annotation
// editor: a background image, rectangles drawn over it, and the pan/zoom
// viewport they are edited through.
//
// The package is render-neutral. The [game] package draws it with
// [Ebitengine] and the [server] package exposes it over HTTP; both drive the
// same [Editor].
//
// # Quick start
//
//	e := boxmark.NewEditor(boxmark.DefaultConfig())
//	r, _ := e.AddRectangle()          // "rect1", 100x100, centered
//	e.HandlePointer(p, true, boxmark.MouseButtonLeft)
//	e.HandlePointer(p, false, boxmark.MouseButtonLeft) // click selects
//
// Feed pointer samples with [Editor.HandlePointer] and wheel deltas with
// [Editor.HandleWheel] once per frame, call [Editor.Update], then render
// [Editor.Frame].
//
// # Coordinates
//
// Shapes live in world coordinates. The [Viewport] maps them to the screen:
// screen = world*Scale + Offset. Wheel zoom keeps the world point under the
// pointer fixed; panning moves Offset by the screen delta of the pointer.
//
// # Editing
//
// At most one shape is selected, and only while edit mode is on. A press on
// the selected shape followed by movement past the drag dead zone moves it;
// on release the new position is committed through [ShapeStore.Update].
// Handles resize or rotate it by changing the live scale, which is folded
// into width and height on release with a floor of [MinShapeSize]. Live
// geometry exists only for the duration of a gesture.
//
// Every mutation is a [Command] applied with [Editor.Apply], so scripted
// input, the keyboard, the HTTP API and the pointer all run through the
// same entry point.
//
// # Import and export
//
// [Editor.ExportJSON] and [Editor.ImportJSON] round-trip the store as a JSON
// array. [Editor.ExportRaster] renders a PNG at scale 1 and the origin,
// restoring the viewport afterwards.
//
// # Concurrency
//
// An Editor is owned by one goroutine. [Session] lets file readers and HTTP
// handlers hand closures to that goroutine.
//
// [Ebitengine]: https://ebitengine.org
// [game]: https://pkg.go.dev/github.com/phanxgames/boxmark/game
// [server]: https://pkg.go.dev/github.com/phanxgames/boxmark/server
package boxmark

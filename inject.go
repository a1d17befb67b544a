package boxmark

// syntheticPointerEvent is a single injected pointer event in screen
// coordinates. It goes through the same state machine as real mouse input.
type syntheticPointerEvent struct {
	screen  Vec2
	pressed bool
	button  MouseButton
	wheel   float64 // non-zero for wheel events; pressed is ignored then
}

// InjectPress queues a left-button press at a screen position. Each queued
// event is consumed by one ProcessInjected call.
func (e *Editor) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screen:  Vec2{x, y},
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move with the button held.
func (e *Editor) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screen:  Vec2{x, y},
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a pointer move with no button held.
func (e *Editor) InjectHover(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screen: Vec2{x, y},
		button: MouseButtonLeft,
	})
}

// InjectRelease queues a release at a screen position.
func (e *Editor) InjectRelease(x, y float64) {
	e.InjectHover(x, y)
}

// InjectClick queues a press followed by a release. Consumes two events.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a press at from, frames-2 interpolated moves and a
// release at to. Minimum frames is 2.
func (e *Editor) InjectDrag(from, to Vec2, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(from.X, from.Y)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t)
	}
	e.InjectRelease(to.X, to.Y)
}

// InjectWheel queues a wheel event at a screen position. The pointer moves
// there first, so the zoom anchors on it.
func (e *Editor) InjectWheel(x, y, deltaY float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screen: Vec2{x, y},
		button: MouseButtonLeft,
		wheel:  deltaY,
	})
}

// PendingInjected returns the number of queued synthetic events.
func (e *Editor) PendingInjected() int {
	return len(e.injectQueue)
}

// ProcessInjected pops one synthetic event and feeds it through the pointer
// state machine. It reports whether an event was consumed, in which case the
// caller should skip real mouse input for this frame.
func (e *Editor) ProcessInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	if evt.wheel != 0 {
		e.HandlePointer(evt.screen, e.pointer.down, evt.button)
		_ = e.HandleWheel(evt.wheel)
		return true
	}
	e.HandlePointer(evt.screen, evt.pressed, evt.button)
	return true
}

// DrainInjected processes every queued synthetic event.
func (e *Editor) DrainInjected() {
	for e.ProcessInjected() {
	}
}

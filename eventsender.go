package scratch

import "sync"

// KeyboardKey enumerates the keys sensing/event blocks can query: space,
// the arrow keys, letters A-Z, and digits 0-9.
type KeyboardKey uint8

const (
	KeySpace KeyboardKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Letter and digit keys follow the arrow keys in the enumeration, in order.
const (
	KeyA KeyboardKey = iota + 5
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// EventSource is the abstract input feed the host delivers raw UI events
// on. A concrete adapter (EbitenEventSource) polls the graphics backend and
// calls into EventSender once per tick.
type EventSource interface {
	PolledClick() (CanvasCoordinate, bool)
	PolledMouseMove() (CanvasCoordinate, bool)
	KeysJustPressed() []KeyboardKey
	KeysJustReleased() []KeyboardKey
}

// EventSender adapts raw UI events into Broadcaster messages and answers
// the mouse/key queries sensing blocks make by calling it directly. Grounded on the
// teacher's input.go pointer/key bookkeeping and
// original_source/src/event_sender.rs's request/response pattern.
type EventSender struct {
	broadcaster *Broadcaster

	mu            sync.RWMutex
	pressedKeys   map[KeyboardKey]bool
	mousePosition CanvasCoordinate
	mouseDown     bool
}

// NewEventSender returns an EventSender publishing onto broadcaster.
func NewEventSender(broadcaster *Broadcaster) *EventSender {
	return &EventSender{
		broadcaster: broadcaster,
		pressedKeys: make(map[KeyboardKey]bool),
	}
}

// Poll reads one tick's worth of events from source and republishes them on
// the Broadcaster, and updates the key/mouse state queries answer from.
func (e *EventSender) Poll(source EventSource) {
	coord, clicked := source.PolledClick()
	e.mu.Lock()
	e.mouseDown = clicked
	if clicked {
		e.mousePosition = coord
	}
	e.mu.Unlock()
	if clicked {
		e.broadcaster.Send(BroadcastMsg{Kind: KindClick, Coordinate: coord})
	}
	if coord, ok := source.PolledMouseMove(); ok {
		e.mu.Lock()
		e.mousePosition = coord
		e.mu.Unlock()
	}
	for _, k := range source.KeysJustPressed() {
		e.mu.Lock()
		e.pressedKeys[k] = true
		e.mu.Unlock()
		e.broadcaster.Send(BroadcastMsg{Kind: KindKeyEvent, Key: k, KeyDown: true})
	}
	for _, k := range source.KeysJustReleased() {
		e.mu.Lock()
		delete(e.pressedKeys, k)
		e.mu.Unlock()
		e.broadcaster.Send(BroadcastMsg{Kind: KindKeyEvent, Key: k, KeyDown: false})
	}
}

// PressedKeys returns a copy of the whole pressed-key set, read under lock
// without a broadcaster round-trip. The keypressed sensing block uses
// IsKeyPressed for its single-key check.
func (e *EventSender) PressedKeys() map[KeyboardKey]bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[KeyboardKey]bool, len(e.pressedKeys))
	for k, v := range e.pressedKeys {
		out[k] = v
	}
	return out
}

// IsKeyPressed answers keypressed for a single key.
func (e *EventSender) IsKeyPressed(k KeyboardKey) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pressedKeys[k]
}

// MousePosition answers sensing_mousex/sensing_mousey (supplemented
// feature, see SPEC_FULL.md).
func (e *EventSender) MousePosition() CanvasCoordinate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mousePosition
}

// MouseDown answers sensing_mousedown.
func (e *EventSender) MouseDown() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mouseDown
}

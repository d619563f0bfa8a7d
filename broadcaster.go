package scratch

import "sync"

// Stop identifies the scope of a stop request.
type Stop struct {
	All          bool
	ThisThread   ThreadID
	OtherThreads ThreadID
	hasThread    bool
	otherScope   bool
}

// StopAll builds a Stop{All} message.
func StopAll() Stop { return Stop{All: true} }

// StopThisThread builds a Stop targeting exactly tid.
func StopThisThread(tid ThreadID) Stop { return Stop{ThisThread: tid, hasThread: true} }

// StopOtherThreads builds a Stop targeting every other thread in tid's
// sprite.
func StopOtherThreads(tid ThreadID) Stop { return Stop{OtherThreads: tid, hasThread: true, otherScope: true} }

// Matches reports whether this Stop applies to tid.
func (s Stop) Matches(tid ThreadID) bool {
	switch {
	case s.All:
		return true
	case s.otherScope:
		return tid.Sprite == s.OtherThreads.Sprite && tid != s.OtherThreads
	case s.hasThread:
		return tid == s.ThisThread
	default:
		return false
	}
}

// LayerKind identifies a draw-order change requested by a layer-change
// broadcast.
type LayerKind uint8

const (
	LayerFront LayerKind = iota
	LayerBack
	LayerChangeBy
)

// LayerChange describes a change to one sprite's position in the draw
// order. ChangeBy carries a relative offset for LayerChangeBy (recovered
// from original_source's LayerChange::ChangeBy(i64), not named in spec.md's
// DrawOrder description but natural alongside Front/Back).
type LayerChange struct {
	Sprite   SpriteID
	Kind     LayerKind
	ChangeBy int64
}

// BroadcastMsg is the Broadcaster's single wire type. Exactly one field
// group is populated per message; Kind says which.
type BroadcastMsg struct {
	Kind BroadcastKind

	Name string // Start, Finished

	Sprite SpriteID // Clone, DeleteClone

	Stop Stop

	Layer LayerChange

	Coordinate CanvasCoordinate // Click, MousePosition

	Key      KeyboardKey // KeyDown, KeyUp
	KeyDown  bool
}

// BroadcastKind tags BroadcastMsg's variant.
type BroadcastKind uint8

const (
	KindStart BroadcastKind = iota
	KindFinished
	KindClone
	KindDeleteClone
	KindClick
	KindStop
	KindChangeLayer
	KindRequestMousePosition
	KindMousePosition
	KindKeyEvent
)

// Broadcaster is the VM-wide typed pub/sub bus. Every subscriber gets its
// own buffered channel; sends never block on a slow subscriber beyond the
// buffer, matching spec §5's "bounded, capacity sufficient for
// subscribe-on-use" resource policy. Grounded on original_source's
// tokio::sync::broadcast usage, re-expressed as a fan-out over plain Go
// channels the way other_examples' scheduler fans work items out to
// registered listeners.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[int]chan BroadcastMsg
	nextID      int

	// controlLog is a second delivery path the VM's step loop drains by
	// cursor (spec §4.5 step 3), so the VM doesn't occupy a fan-out
	// subscriber slot that would skew broadcastandwait's pre-existing-
	// subscriber count.
	controlLog []BroadcastMsg
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[int]chan BroadcastMsg)}
}

// Subscription is a handle returned by Subscribe; call Unsubscribe when
// done listening.
type Subscription struct {
	id int
	ch chan BroadcastMsg
	b  *Broadcaster
}

// C returns the channel messages arrive on.
func (s *Subscription) C() <-chan BroadcastMsg { return s.ch }

// Unsubscribe removes the subscription; further sends won't block on it.
func (s *Subscription) Unsubscribe() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if ch, ok := s.b.subscribers[s.id]; ok {
		delete(s.b.subscribers, s.id)
		close(ch)
	}
}

// subscriberBuffer is generous enough that a subscriber lagging by one VM
// tick never causes Send to block; each subscribing block drains its own
// channel when it runs, while the VM reads the control log instead (spec §4.5
// step 3). Send never blocks in any case: a full channel drops its oldest
// message.
const subscriberBuffer = 64

// Subscribe registers a new listener. Only messages sent after Subscribe
// returns are visible to it (Open Question #3: edge-triggered delivery).
func (b *Broadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan BroadcastMsg, subscriberBuffer)
	b.subscribers[id] = ch
	return &Subscription{id: id, ch: ch, b: b}
}

// Send delivers msg to every subscriber registered at the time Send is
// called. A full subscriber channel drops the oldest pending message
// rather than blocking the sender, matching spec §5's "at least once, most
// recent wins" backpressure policy.
func (b *Broadcaster) Send(msg BroadcastMsg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controlLog = append(b.controlLog, msg)
	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- msg:
			default:
			}
		}
	}
}

// Count reports the number of currently registered fan-out subscribers,
// used by broadcastandwait to snapshot "pre-existing" receivers before
// sending (Open Question #3).
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// DrainSince returns every message sent at or after cursor, plus the
// cursor value to pass on the next call. Used by the VM's step loop to
// observe control messages (clone/stop/layer/mouse) without consuming a
// fan-out subscriber slot.
func (b *Broadcaster) DrainSince(cursor int) ([]BroadcastMsg, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cursor >= len(b.controlLog) {
		return nil, cursor
	}
	out := append([]BroadcastMsg(nil), b.controlLog[cursor:]...)
	return out, len(b.controlLog)
}

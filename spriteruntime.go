package scratch

import (
	"math"
	"sync"
)

// VariableStore is the single exclusive global variable map (spec §5):
// writers hold the lock only while applying the read-modify-write, so
// concurrent changevariableby calls against the same variable serialize
// correctly (§8 property 6).
type VariableStore struct {
	mu   sync.Mutex
	vars map[string]Value
}

// NewVariableStore builds a store seeded from a target's variable
// declarations.
func NewVariableStore(initial map[string]TargetVariable) *VariableStore {
	vs := &VariableStore{vars: make(map[string]Value, len(initial))}
	for id, v := range initial {
		vs.vars[id] = v.Value
	}
	return vs
}

// Get reads a variable by id, returning Null if it's unset.
func (vs *VariableStore) Get(id string) Value {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.vars[id]
}

// Set writes a variable by id.
func (vs *VariableStore) Set(id string, v Value) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.vars[id] = v
}

// ChangeBy performs an atomic read-modify-write: the previous value
// (coerced to float, defaulting to 0) plus delta.
func (vs *VariableStore) ChangeBy(id string, delta float64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	prev := vs.vars[id].AsFloat()
	vs.vars[id] = NumberValue(prev + delta)
}

// Fork returns an independent copy, used when a clone needs its own
// variable snapshot. Scratch's per-sprite variables are otherwise shared
// with the stage's globals; callers decide which store a given sprite
// should reference.
func (vs *VariableStore) Fork() *VariableStore {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	out := &VariableStore{vars: make(map[string]Value, len(vs.vars))}
	for k, v := range vs.vars {
		out.vars[k] = v
	}
	return out
}

// TextBubbleKind distinguishes a say bubble from a think bubble
// (supplemented feature 3, SPEC_FULL.md).
type TextBubbleKind uint8

const (
	BubbleSay TextBubbleKind = iota
	BubbleThink
)

// Visibility toggles whether a sprite is drawn.
type Visibility uint8

const (
	Show Visibility = iota
	Hide
)

// Costume is one drawable frame a sprite can switch to.
type Costume struct {
	Name            string
	Image           DrawableImage
	RotationCenterX float64
	RotationCenterY float64
}

// SpriteRuntime is a sprite's mutable visible state, exclusively owned by
// its Sprite. Blocks mutate it via Lock/Unlock held only for the duration
// of a single mutation, never across a scheduling yield (spec §5).
type SpriteRuntime struct {
	mu sync.Mutex

	SpriteID  SpriteID
	IsClone   bool
	needRedraw bool

	Rectangle SpriteRectangle
	Direction float64 // degrees, 0 = up, clockwise
	BaseSize  Size    // authored costume size at 100% scale
	Scale     Scale

	Costumes       []Costume
	CurrentCostume int

	TextBubble     string
	TextBubbleKind TextBubbleKind
	hasBubble      bool

	Visible Visibility
	Pen     *Pen

	Variables *VariableStore

	broadcaster *Broadcaster
	spriteMap   *SpriteMap
	eventSender *EventSender
}

// NewSpriteRuntime builds a fresh runtime for a non-clone sprite.
func NewSpriteRuntime(id SpriteID, rect SpriteRectangle, costumes []Costume, variables *VariableStore, broadcaster *Broadcaster) *SpriteRuntime {
	return &SpriteRuntime{
		SpriteID:  id,
		Rectangle: rect,
		BaseSize:  rect.Size,
		Scale:     DefaultScale,
		Costumes:  costumes,
		Visible:   Show,
		Pen:       NewPen(),
		Variables: variables,
		broadcaster: broadcaster,
		needRedraw: true,
	}
}

// bindVM wires the runtime to the VM's shared SpriteMap/EventSender once
// they exist, so blocks that need cross-sprite lookups (touching, clone-
// by-name) or input queries (mouse/key sensing) can reach them through rt
// alone, without every Execute signature threading a *VM parameter.
func (rt *SpriteRuntime) bindVM(sprites *SpriteMap, eventSender *EventSender) {
	rt.spriteMap = sprites
	rt.eventSender = eventSender
}

// SpriteMap returns the VM's sprite collection, for touching/clone-by-name
// lookups.
func (rt *SpriteRuntime) SpriteMap() *SpriteMap { return rt.spriteMap }

// EventSender returns the VM's input adapter, for sensing blocks.
func (rt *SpriteRuntime) EventSender() *EventSender { return rt.eventSender }

// Lock acquires the per-sprite mutation lock. Callers must Unlock before
// yielding control back to the scheduler (wait, broadcastandwait) — never
// hold it across an await point, or other threads mutating the same
// sprite will deadlock.
func (rt *SpriteRuntime) Lock()   { rt.mu.Lock() }
func (rt *SpriteRuntime) Unlock() { rt.mu.Unlock() }

// markDirty sets need_redraw; called by every mutation that changes a
// visible property.
func (rt *SpriteRuntime) markDirty() { rt.needRedraw = true }

// Broadcaster returns the bus this sprite's blocks send control messages
// on (stop, clone, layer change).
func (rt *SpriteRuntime) Broadcaster() *Broadcaster { return rt.broadcaster }

// NeedsRedraw reports and does not clear the dirty bit.
func (rt *SpriteRuntime) NeedsRedraw() bool { return rt.needRedraw }

// ClearRedraw is called only by the render pass, after drawing.
func (rt *SpriteRuntime) ClearRedraw() { rt.needRedraw = false }

// SetCenter moves the sprite, updates the pen if down, and marks dirty.
func (rt *SpriteRuntime) SetCenter(c SpriteCoordinate) {
	rt.Lock()
	defer rt.Unlock()
	rt.Rectangle.Center = c
	rt.Pen.SetPosition(c)
	rt.markDirty()
}

// Center returns the sprite's current center.
func (rt *SpriteRuntime) Center() SpriteCoordinate {
	rt.Lock()
	defer rt.Unlock()
	return rt.Rectangle.Center
}

// SetBubble sets the text bubble content and kind.
func (rt *SpriteRuntime) SetBubble(kind TextBubbleKind, text string) {
	rt.Lock()
	defer rt.Unlock()
	rt.TextBubble = text
	rt.TextBubbleKind = kind
	rt.hasBubble = true
	rt.markDirty()
}

// ClearBubble removes the text bubble.
func (rt *SpriteRuntime) ClearBubble() {
	rt.Lock()
	defer rt.Unlock()
	rt.TextBubble = ""
	rt.hasBubble = false
	rt.markDirty()
}

// SetVisible toggles hide/show.
func (rt *SpriteRuntime) SetVisible(v Visibility) {
	rt.Lock()
	defer rt.Unlock()
	rt.Visible = v
	rt.markDirty()
}

// SetCostume sets the current costume index, modular in the costume count.
func (rt *SpriteRuntime) SetCostume(index int) {
	rt.Lock()
	defer rt.Unlock()
	if len(rt.Costumes) == 0 {
		return
	}
	n := index % len(rt.Costumes)
	if n < 0 {
		n += len(rt.Costumes)
	}
	rt.CurrentCostume = n
	rt.markDirty()
}

// NextCostume advances to the next costume, wrapping.
func (rt *SpriteRuntime) NextCostume() {
	rt.Lock()
	defer rt.Unlock()
	if len(rt.Costumes) == 0 {
		return
	}
	rt.CurrentCostume = (rt.CurrentCostume + 1) % len(rt.Costumes)
	rt.markDirty()
}

// CostumeIndexByName finds a costume by its authored name.
func (rt *SpriteRuntime) CostumeIndexByName(name string) (int, bool) {
	rt.Lock()
	defer rt.Unlock()
	for i, c := range rt.Costumes {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// SetScalePercent resizes the sprite relative to its authored costume size,
// clamped to a non-negative percentage.
func (rt *SpriteRuntime) SetScalePercent(percent float64) {
	rt.Lock()
	defer rt.Unlock()
	if percent < 0 {
		percent = 0
	}
	factor := percent / 100
	rt.Scale = Scale{X: factor, Y: factor}
	rt.Rectangle.Size = rt.BaseSize.Multiply(rt.Scale)
	rt.markDirty()
}

// ScalePercent reports the current size as a percentage of authored size.
func (rt *SpriteRuntime) ScalePercent() float64 {
	rt.Lock()
	defer rt.Unlock()
	return rt.Scale.X * 100
}

// SetDirection sets the sprite's facing direction, normalized to (-180,180].
func (rt *SpriteRuntime) SetDirection(degrees float64) {
	rt.Lock()
	defer rt.Unlock()
	d := math.Mod(degrees, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	rt.Direction = d
	rt.markDirty()
}

// Fork produces a deep-enough copy for cloning: pen lines and position are
// copied, costumes are shared by reference (authored assets don't change
// per-clone), and is_clone is set true on the result (spec §4.4).
func (rt *SpriteRuntime) Fork(newID SpriteID) *SpriteRuntime {
	rt.Lock()
	defer rt.Unlock()
	clonePen := &Pen{status: rt.Pen.status, color: rt.Pen.color, size: rt.Pen.size}
	clonePen.Lines = append([]Line(nil), rt.Pen.Lines...)
	for i := range clonePen.Lines {
		clonePen.Lines[i].Points = append([]SpriteCoordinate(nil), clonePen.Lines[i].Points...)
	}
	return &SpriteRuntime{
		SpriteID:       newID,
		IsClone:        true,
		Rectangle:      rt.Rectangle,
		Direction:      rt.Direction,
		BaseSize:       rt.BaseSize,
		Scale:          rt.Scale,
		Costumes:       rt.Costumes,
		CurrentCostume: rt.CurrentCostume,
		Visible:        rt.Visible,
		Pen:            clonePen,
		Variables:      rt.Variables,
		broadcaster:    rt.broadcaster,
		spriteMap:      rt.spriteMap,
		eventSender:    rt.eventSender,
		needRedraw:     true,
	}
}

package scratch

import (
	"context"
	"log"
	"os"
	"sort"
)

// VM is the top-level interpreter lifecycle: it builds sprites from a
// project, drives the step loop, and exposes pause/continue/step. Grounded
// on original_source/src/vm.rs, fused with the teacher's scene.go
// Update/Draw per-tick shape.
type VM struct {
	sink        DrawingSink
	sprites     *SpriteMap
	broadcaster *Broadcaster
	controller  *ThreadController
	eventSender *EventSender

	controlCursor int
	halted        bool

	debug  bool
	logger *log.Logger
}

// NewVM builds sprites from project and wires them to sink. Targets are
// built in file order and share one global variable store; the initial draw
// order sorts them by layer_order (ties keep file order), so the stage
// (layer_order 0) draws first.
func NewVM(project *Project, sink DrawingSink) (*VM, error) {
	broadcaster := NewBroadcaster()
	sprites := NewSpriteMap(nil)
	vm := &VM{
		sink:        sink,
		sprites:     sprites,
		broadcaster: broadcaster,
		controller:  NewThreadController(),
		eventSender: NewEventSender(broadcaster),
		logger:      log.New(os.Stderr, "scratch: ", log.LstdFlags),
	}

	globals := make(map[string]TargetVariable)
	for _, target := range project.Targets {
		for vid, v := range target.Variables {
			globals[vid] = v
		}
	}
	variables := NewVariableStore(globals)

	type layered struct {
		id    SpriteID
		layer int
	}
	var layers []layered
	for _, target := range project.Targets {
		id := HashSpriteName(target.Name)
		rect := SpriteRectangle{
			Center: SpriteCoordinate{X: target.X, Y: target.Y},
			Size:   Size{Width: 0, Height: 0},
		}
		costumes := make([]Costume, len(target.Costumes))
		for i, c := range target.Costumes {
			costumes[i] = Costume{
				Name:            c.Name,
				RotationCenterX: c.RotationCenterX,
				RotationCenterY: c.RotationCenterY,
			}
		}
		runtime := NewSpriteRuntime(id, rect, costumes, variables, broadcaster)
		runtime.bindVM(sprites, vm.eventSender)
		sprite, err := NewSprite(id, target, runtime)
		if err != nil {
			return nil, &InitializationError{Cause: err}
		}
		sprites.Insert(sprite, true)
		layers = append(layers, layered{id: id, layer: target.LayerOrder})
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].layer < layers[j].layer })
	order := make([]SpriteID, len(layers))
	for i, l := range layers {
		order[i] = l.id
	}
	sprites.DrawOrder = NewDrawOrder(order)
	return vm, nil
}

// Sprites returns every live sprite id, for host introspection.
func (vm *VM) Sprites() []SpriteID {
	var out []SpriteID
	for _, id := range vm.sprites.DrawOrder.Iter() {
		if !vm.sprites.IsRemoved(id) {
			out = append(out, id)
		}
	}
	return out
}

// Continue resumes a paused VM.
func (vm *VM) Continue() { vm.controller.Continue() }

// Pause suspends the VM; threads observe this at their next yield point.
func (vm *VM) Pause() { vm.controller.Pause() }

// Step releases exactly one thread step while remaining paused.
func (vm *VM) Step() { vm.controller.Step() }

// SetDebugMode toggles structured debug logging, mirroring willow's
// Scene.SetDebugMode.
func (vm *VM) SetDebugMode(enabled bool) { vm.debug = enabled }

// SetLogger overrides the destination for debug/error logging.
func (vm *VM) SetLogger(l *log.Logger) { vm.logger = l }

// Tick runs exactly one VM step-loop iteration (spec §4.5): step every
// thread once, drain control messages, then redraw.
func (vm *VM) Tick(ctx context.Context, source EventSource) error {
	if vm.halted {
		return nil
	}
	vm.eventSender.Poll(source)

	for _, tid := range vm.sprites.AllThreadIDs() {
		if vm.sprites.IsRemoved(tid.Sprite) {
			continue
		}
		vm.controller.Wait()
		outcome, ran := vm.sprites.Step(ctx, tid)
		if !ran {
			continue
		}
		if outcome == StepFailed {
			if s, ok := vm.sprites.Get(tid.Sprite); ok {
				if t := threadByID(s, tid); t != nil && vm.debug {
					vm.logger.Printf("thread %v failed: %v", tid, t.Err())
				}
			}
		}
		if vm.halted {
			break
		}
	}

	vm.drainControlMessages()
	vm.redraw()
	return nil
}

func threadByID(s *Sprite, tid ThreadID) *Thread {
	if tid.Index < 0 || tid.Index >= len(s.Threads) {
		return nil
	}
	return s.Threads[tid.Index]
}

// drainControlMessages applies side effects from every Broadcaster message
// sent since the last tick: clone creation/removal, layer changes, and
// Stop(All) halting the VM (spec §4.5 step 3).
func (vm *VM) drainControlMessages() {
	msgs, cursor := vm.broadcaster.DrainSince(vm.controlCursor)
	vm.controlCursor = cursor
	for _, msg := range msgs {
		switch msg.Kind {
		case KindClone:
			vm.handleClone(msg.Sprite)
		case KindDeleteClone:
			vm.sprites.Remove(msg.Sprite)
		case KindChangeLayer:
			vm.sprites.DrawOrder.ChangeLayer(msg.Layer)
		case KindStop:
			vm.handleStop(msg.Stop)
		}
	}
}

func (vm *VM) handleClone(sourceID SpriteID) {
	source, ok := vm.sprites.Get(sourceID)
	if !ok {
		return
	}
	clone, err := source.Clone(vm.sprites.MintCloneID)
	if err != nil {
		if vm.debug {
			vm.logger.Printf("clone of %v failed: %v", sourceID, err)
		}
		return
	}
	vm.sprites.Insert(clone, true)
}

func (vm *VM) handleStop(stop Stop) {
	if stop.All {
		vm.halted = true
		return
	}
	for _, tid := range vm.sprites.AllThreadIDs() {
		if stop.Matches(tid) {
			vm.sprites.StopThread(tid)
		}
	}
}

// redraw starts a fresh frame and calls the drawing sink for every live
// sprite in draw-order (back to front), clearing each sprite's dirty bit
// afterward, so a redraw with no intervening mutation produces the same
// frame (spec §4.4 Rendering order, §8 property 7 redraw idempotence).
func (vm *VM) redraw() {
	if vm.sink == nil {
		return
	}
	vm.sink.BeginFrame()
	for _, id := range vm.sprites.DrawOrder.Iter() {
		if vm.sprites.IsRemoved(id) {
			continue
		}
		s, ok := vm.sprites.Get(id)
		if !ok {
			continue
		}
		drawSprite(vm.sink, s)
		s.Runtime.ClearRedraw()
	}
	if err := vm.sink.EndFrame(); err != nil {
		if vm.debug {
			vm.logger.Printf("sink error: %v", &SinkError{Cause: err})
		}
	}
}

func drawSprite(sink DrawingSink, s *Sprite) {
	rt := s.Runtime
	for _, line := range rt.Pen.Lines {
		if len(line.Points) > 1 {
			sink.DrawPolyline(line.Points, line.Color, line.Size, true)
		}
	}
	if rt.Visible == Hide {
		return
	}
	if len(rt.Costumes) == 0 {
		return
	}
	costume := rt.Costumes[rt.CurrentCostume]
	x, y, w, h := rt.Rectangle.CanvasRect()
	sink.DrawImage(costume.Image, x, y, w, h, Transform{Rotation: rt.Direction, ScaleX: 1, ScaleY: 1})
	if rt.TextBubble != "" {
		pos := rt.Rectangle.TopLeft().ToCanvas()
		sink.FillText(rt.TextBubble, pos, nil)
	}
}

// EventSender exposes the VM's input adapter for sensing blocks.
func (vm *VM) EventSender() *EventSender { return vm.eventSender }

// Broadcaster exposes the VM's bus, used by blocks constructed outside the
// normal tree-build path (tests) that need to send directly.
func (vm *VM) Broadcaster() *Broadcaster { return vm.broadcaster }

// SpriteMap exposes the VM's sprite collection for sensing/touching blocks.
func (vm *VM) SpriteMap() *SpriteMap { return vm.sprites }

// Halted reports whether Stop(All) has ended this run.
func (vm *VM) Halted() bool { return vm.halted }

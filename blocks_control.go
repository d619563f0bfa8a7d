package scratch

import (
	"context"
	"time"
)

func init() {
	registerBlock("control_if", func(id BlockID) Block { return &ifBlock{baseBlock: newBase(id)} })
	registerBlock("control_if_else", func(id BlockID) Block { return &ifElseBlock{baseBlock: newBase(id)} })
	registerBlock("control_repeat", func(id BlockID) Block { return &repeatBlock{baseBlock: newBase(id)} })
	registerBlock("control_repeat_until", func(id BlockID) Block { return &repeatUntilBlock{baseBlock: newBase(id)} })
	registerBlock("control_forever", func(id BlockID) Block { return &foreverBlock{baseBlock: newBase(id)} })
	registerBlock("control_wait", func(id BlockID) Block { return &waitBlock{baseBlock: newBase(id)} })
	registerBlock("control_wait_until", func(id BlockID) Block { return &waitUntilBlock{baseBlock: newBase(id)} })
	registerBlock("control_start_as_clone", func(id BlockID) Block { return &startAsCloneBlock{baseBlock: newBase(id)} })
	registerBlock("control_delete_this_clone", func(id BlockID) Block { return &deleteThisCloneBlock{baseBlock: newBase(id)} })
	registerBlock("control_create_clone_of", func(id BlockID) Block { return &createCloneOfBlock{baseBlock: newBase(id)} })
	registerBlock("control_stop", func(id BlockID) Block { return &stopBlock{baseBlock: newBase(id)} })
}

// ifBlock: on first entry evaluates CONDITION; true loops into SUBSTACK and
// remembers it fired; on re-entry (substack finished) continues to next.
type ifBlock struct {
	baseBlock
	fired bool
}

func (b *ifBlock) Name() string                    { return "control_if" }
func (b *ifBlock) BlockInputs() BlockInputs         { return b.blockInputs(b.Name()) }
func (b *ifBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *ifBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if b.fired {
		b.fired = false
		return nextOrDone(b.stacks["next"])
	}
	cond, err := evalInput(ctx, blocks, b.inputs, "CONDITION", rt)
	if err != nil {
		return NextFail(err)
	}
	if !cond.AsBool() {
		return nextOrDone(b.stacks["next"])
	}
	sub, ok := b.stacks["SUBSTACK"]
	if !ok {
		return nextOrDone(b.stacks["next"])
	}
	b.fired = true
	return NextLoopTo(sub)
}

// ifElseBlock branches between SUBSTACK and SUBSTACK2 the same way ifBlock
// branches into SUBSTACK.
type ifElseBlock struct {
	baseBlock
	fired bool
}

func (b *ifElseBlock) Name() string            { return "control_if_else" }
func (b *ifElseBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *ifElseBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *ifElseBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if b.fired {
		b.fired = false
		return nextOrDone(b.stacks["next"])
	}
	cond, err := evalInput(ctx, blocks, b.inputs, "CONDITION", rt)
	if err != nil {
		return NextFail(err)
	}
	slot := "SUBSTACK2"
	if cond.AsBool() {
		slot = "SUBSTACK"
	}
	sub, ok := b.stacks[slot]
	if !ok {
		return nextOrDone(b.stacks["next"])
	}
	b.fired = true
	return NextLoopTo(sub)
}

// repeatBlock evaluates TIMES once, floors to a non-negative integer, then
// loops SUBSTACK that many times before continuing.
type repeatBlock struct {
	baseBlock
	started   bool
	remaining int
}

func (b *repeatBlock) Name() string            { return "control_repeat" }
func (b *repeatBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *repeatBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *repeatBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.started {
		times, err := evalInput(ctx, blocks, b.inputs, "TIMES", rt)
		if err != nil {
			return NextFail(err)
		}
		n := int(times.AsFloat())
		if n < 0 {
			n = 0
		}
		b.remaining = n
		b.started = true
	}
	if b.remaining <= 0 {
		b.started = false
		return nextOrDone(b.stacks["next"])
	}
	b.remaining--
	sub, ok := b.stacks["SUBSTACK"]
	if !ok {
		b.started = false
		return nextOrDone(b.stacks["next"])
	}
	return NextLoopTo(sub)
}

// repeatUntilBlock re-evaluates CONDITION on every entry: true continues,
// false loops SUBSTACK. Naturally idempotent on re-entry, no fired flag
// needed.
type repeatUntilBlock struct{ baseBlock }

func (b *repeatUntilBlock) Name() string            { return "control_repeat_until" }
func (b *repeatUntilBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *repeatUntilBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *repeatUntilBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	cond, err := evalInput(ctx, blocks, b.inputs, "CONDITION", rt)
	if err != nil {
		return NextFail(err)
	}
	if cond.AsBool() {
		return nextOrDone(b.stacks["next"])
	}
	sub, ok := b.stacks["SUBSTACK"]
	if !ok {
		return nextOrDone(b.stacks["next"])
	}
	return NextLoopTo(sub)
}

// foreverBlock loops SUBSTACK unconditionally; it never terminates the
// thread voluntarily.
type foreverBlock struct{ baseBlock }

func (b *foreverBlock) Name() string            { return "control_forever" }
func (b *foreverBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *foreverBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *foreverBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	sub, ok := b.stacks["SUBSTACK"]
	if !ok {
		return NextDone()
	}
	return NextLoopTo(sub)
}

// waitBlock suspends the thread for DURATION seconds of wall clock time by
// looping on itself until the deadline passes.
type waitBlock struct {
	baseBlock
	deadline time.Time
	waiting  bool
}

func (b *waitBlock) Name() string            { return "control_wait" }
func (b *waitBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *waitBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *waitBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.waiting {
		duration, err := evalInput(ctx, blocks, b.inputs, "DURATION", rt)
		if err != nil {
			return NextFail(err)
		}
		b.deadline = time.Now().Add(time.Duration(duration.AsFloat() * float64(time.Second)))
		b.waiting = true
	}
	if time.Now().Before(b.deadline) {
		return NextTo(b.id)
	}
	b.waiting = false
	return nextOrDone(b.stacks["next"])
}

// waitUntilBlock re-polls CONDITION, looping on itself until true.
type waitUntilBlock struct{ baseBlock }

func (b *waitUntilBlock) Name() string            { return "control_wait_until" }
func (b *waitUntilBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *waitUntilBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *waitUntilBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	cond, err := evalInput(ctx, blocks, b.inputs, "CONDITION", rt)
	if err != nil {
		return NextFail(err)
	}
	if cond.AsBool() {
		return nextOrDone(b.stacks["next"])
	}
	return NextTo(b.id)
}

// startAsCloneBlock is a hat: succeeds only when the sprite is a clone.
type startAsCloneBlock struct{ baseBlock }

func (b *startAsCloneBlock) Name() string            { return "control_start_as_clone" }
func (b *startAsCloneBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *startAsCloneBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *startAsCloneBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !rt.IsClone {
		return NextDone()
	}
	return nextOrDone(b.stacks["next"])
}

// deleteThisCloneBlock sends DeleteClone(sprite_id) and ends the thread.
type deleteThisCloneBlock struct{ baseBlock }

func (b *deleteThisCloneBlock) Name() string            { return "control_delete_this_clone" }
func (b *deleteThisCloneBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *deleteThisCloneBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *deleteThisCloneBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.Broadcaster().Send(BroadcastMsg{Kind: KindDeleteClone, Sprite: rt.SpriteID})
	return NextDone()
}

// createCloneOfBlock sends Clone(sprite_id) for "myself" (TARGET literal
// "_myself_") or a named sprite, then continues.
type createCloneOfBlock struct{ baseBlock }

func (b *createCloneOfBlock) Name() string            { return "control_create_clone_of" }
func (b *createCloneOfBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *createCloneOfBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *createCloneOfBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	target := rt.SpriteID
	s, err := evalInput(ctx, blocks, b.inputs, "CLONE_OPTION", rt)
	if err == nil && s.Kind() == KindString && s.String() != "_myself_" {
		if sm := rt.SpriteMap(); sm != nil {
			named := HashSpriteName(s.String())
			if _, ok := sm.Get(named); ok {
				target = named
			}
		}
	}
	rt.Broadcaster().Send(BroadcastMsg{Kind: KindClone, Sprite: target})
	return nextOrDone(b.stacks["next"])
}

// stopBlock reads STOP_OPTION from the block's field ("all", "this
// script", "other scripts in sprite") and sends the matching Stop message;
// any other option sends nothing. "all" additionally halts the VM via the
// receiving drain loop. The block then continues to next whatever the option.
type stopBlock struct{ baseBlock }

func (b *stopBlock) Name() string            { return "control_stop" }
func (b *stopBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *stopBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *stopBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	option := b.field("STOP_OPTION")
	tid, _ := threadIDFromContext(ctx)
	switch option {
	case "all":
		rt.Broadcaster().Send(BroadcastMsg{Kind: KindStop, Stop: StopAll()})
	case "this script":
		rt.Broadcaster().Send(BroadcastMsg{Kind: KindStop, Stop: StopThisThread(tid)})
	case "other scripts in sprite":
		rt.Broadcaster().Send(BroadcastMsg{Kind: KindStop, Stop: StopOtherThreads(tid)})
	}
	return nextOrDone(b.stacks["next"])
}

func nextOrDone(id BlockID) Next {
	if id == ZeroBlockID {
		return NextDone()
	}
	return NextTo(id)
}

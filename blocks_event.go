package scratch

import "context"

func init() {
	registerBlock("event_whenflagclicked", func(id BlockID) Block { return &whenFlagClickedBlock{baseBlock: newBase(id)} })
	registerBlock("event_whenbroadcastreceived", func(id BlockID) Block { return &whenBroadcastReceivedBlock{baseBlock: newBase(id)} })
	registerBlock("event_broadcast", func(id BlockID) Block { return &broadcastBlock{baseBlock: newBase(id)} })
	registerBlock("event_broadcastandwait", func(id BlockID) Block { return &broadcastAndWaitBlock{baseBlock: newBase(id)} })
	registerBlock("event_whenthisspriteclicked", func(id BlockID) Block { return &whenThisSpriteClickedBlock{baseBlock: newBase(id)} })
}

// whenFlagClickedBlock is a hat that runs once when the thread starts,
// suppressed on clones.
type whenFlagClickedBlock struct {
	baseBlock
	ran bool
}

func (b *whenFlagClickedBlock) Name() string            { return "event_whenflagclicked" }
func (b *whenFlagClickedBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *whenFlagClickedBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *whenFlagClickedBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if rt.IsClone {
		return NextDone()
	}
	return nextOrDone(b.stacks["next"])
}

// whenBroadcastReceivedBlock is a hat that waits for a matching
// Start(name), runs the rest of its stack once, then emits Finished(name)
// so broadcastandwait can synchronize, and waits for the next match.
// Modeled as a forever-loop head: Loop(next) descends into the body, and
// the body's terminal None pops back to this block, which is how it
// detects completion.
type whenBroadcastReceivedBlock struct {
	baseBlock
	sub        *Subscription
	dispatched bool
}

func (b *whenBroadcastReceivedBlock) Name() string            { return "event_whenbroadcastreceived" }
func (b *whenBroadcastReceivedBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *whenBroadcastReceivedBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *whenBroadcastReceivedBlock) broadcastName() string {
	return b.field("BROADCAST_OPTION")
}

func (b *whenBroadcastReceivedBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if b.sub == nil {
		b.sub = rt.Broadcaster().Subscribe()
	}
	if b.dispatched {
		b.dispatched = false
		rt.Broadcaster().Send(BroadcastMsg{Kind: KindFinished, Name: b.broadcastName()})
	}

	name := b.broadcastName()
drain:
	for {
		select {
		case msg := <-b.sub.C():
			if msg.Kind == KindStart && msg.Name == name {
				next, ok := b.stacks["next"]
				if !ok {
					rt.Broadcaster().Send(BroadcastMsg{Kind: KindFinished, Name: name})
					continue drain
				}
				b.dispatched = true
				return NextLoopTo(next)
			}
		default:
			break drain
		}
	}
	return NextTo(b.id)
}

// broadcastBlock sends Start(name) and continues immediately.
type broadcastBlock struct{ baseBlock }

func (b *broadcastBlock) Name() string            { return "event_broadcast" }
func (b *broadcastBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *broadcastBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *broadcastBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	name, err := evalInput(ctx, blocks, b.inputs, "BROADCAST_INPUT", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.Broadcaster().Send(BroadcastMsg{Kind: KindStart, Name: name.String()})
	return nextOrDone(b.stacks["next"])
}

// broadcastAndWaitBlock sends Start(name), then awaits a matching
// Finished(name) from every receiver subscribed before the send (Open
// Question #3), before continuing.
type broadcastAndWaitBlock struct {
	baseBlock
	sub           *Subscription
	sent          bool
	expected      int
	received      int
	name          string
}

func (b *broadcastAndWaitBlock) Name() string            { return "event_broadcastandwait" }
func (b *broadcastAndWaitBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *broadcastAndWaitBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *broadcastAndWaitBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.sent {
		name, err := evalInput(ctx, blocks, b.inputs, "BROADCAST_INPUT", rt)
		if err != nil {
			return NextFail(err)
		}
		b.name = name.String()
		b.expected = rt.Broadcaster().Count()
		b.sub = rt.Broadcaster().Subscribe()
		rt.Broadcaster().Send(BroadcastMsg{Kind: KindStart, Name: b.name})
		b.sent = true
	}

	for {
		select {
		case msg := <-b.sub.C():
			if msg.Kind == KindFinished && msg.Name == b.name {
				b.received++
			}
		default:
			goto checked
		}
	}
checked:
	if b.received >= b.expected {
		b.sub.Unsubscribe()
		b.sent = false
		b.received = 0
		return nextOrDone(b.stacks["next"])
	}
	return NextTo(b.id)
}

// whenThisSpriteClickedBlock is a hat that waits for a Click whose
// coordinate lies within the sprite's rectangle.
type whenThisSpriteClickedBlock struct {
	baseBlock
	sub *Subscription
}

func (b *whenThisSpriteClickedBlock) Name() string            { return "event_whenthisspriteclicked" }
func (b *whenThisSpriteClickedBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *whenThisSpriteClickedBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *whenThisSpriteClickedBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if b.sub == nil {
		b.sub = rt.Broadcaster().Subscribe()
	}
	for {
		select {
		case msg := <-b.sub.C():
			if msg.Kind == KindClick && rt.Rectangle.Contains(msg.Coordinate.ToSprite()) {
				return nextOrDone(b.stacks["next"])
			}
		default:
			return NextTo(b.id)
		}
	}
}

package scratch

import (
	"context"
	"time"
)

func init() {
	registerBlock("looks_say", func(id BlockID) Block { return &sayBlock{baseBlock: newBase(id), kind: BubbleSay} })
	registerBlock("looks_sayforsecs", func(id BlockID) Block { return &sayForSecsBlock{baseBlock: newBase(id), kind: BubbleSay} })
	registerBlock("looks_think", func(id BlockID) Block { return &sayBlock{baseBlock: newBase(id), kind: BubbleThink} })
	registerBlock("looks_thinkforsecs", func(id BlockID) Block { return &sayForSecsBlock{baseBlock: newBase(id), kind: BubbleThink} })
	registerBlock("looks_show", func(id BlockID) Block { return &visibilityBlock{baseBlock: newBase(id), visibility: Show} })
	registerBlock("looks_hide", func(id BlockID) Block { return &visibilityBlock{baseBlock: newBase(id), visibility: Hide} })
	registerBlock("looks_switchcostumeto", func(id BlockID) Block { return &switchCostumeToBlock{baseBlock: newBase(id)} })
	registerBlock("looks_nextcostume", func(id BlockID) Block { return &nextCostumeBlock{baseBlock: newBase(id)} })
	registerBlock("looks_setsizeto", func(id BlockID) Block { return &setSizeToBlock{baseBlock: newBase(id)} })
	registerBlock("looks_changeeffectby", func(id BlockID) Block { return &noopLooksBlock{baseBlock: newBase(id), name: "looks_changeeffectby"} })
	registerBlock("looks_seteffectto", func(id BlockID) Block { return &noopLooksBlock{baseBlock: newBase(id), name: "looks_seteffectto"} })
	registerBlock("looks_cleargraphiceffects", func(id BlockID) Block { return &noopLooksBlock{baseBlock: newBase(id), name: "looks_cleargraphiceffects"} })
	registerBlock("looks_goforwardbackwardlayers", func(id BlockID) Block { return &goLayerBlock{baseBlock: newBase(id)} })
	registerBlock("looks_gotofrontback", func(id BlockID) Block { return &goFrontBackBlock{baseBlock: newBase(id)} })
	registerBlock("looks_costumenumbername", func(id BlockID) Block { return &costumeNumberNameBlock{baseBlock: newBase(id)} })
	registerBlock("looks_size", func(id BlockID) Block { return &sizeReporterBlock{baseBlock: newBase(id)} })
}

// sayBlock sets a persistent text bubble (supplemented feature 3: looks_say
// and looks_think share the same SpriteRuntime.TextBubble mechanism,
// distinguished by TextBubbleKind).
type sayBlock struct {
	baseBlock
	kind TextBubbleKind
}

func (b *sayBlock) Name() string {
	if b.kind == BubbleThink {
		return "looks_think"
	}
	return "looks_say"
}
func (b *sayBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *sayBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *sayBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	msg, err := evalInput(ctx, blocks, b.inputs, "MESSAGE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.SetBubble(b.kind, msg.String())
	return nextOrDone(b.stacks["next"])
}

// sayForSecsBlock shows a bubble for a fixed duration, using the same
// self-loop deadline pattern as control_wait.
type sayForSecsBlock struct {
	baseBlock
	kind     TextBubbleKind
	deadline time.Time
	started  bool
}

func (b *sayForSecsBlock) Name() string {
	if b.kind == BubbleThink {
		return "looks_thinkforsecs"
	}
	return "looks_sayforsecs"
}
func (b *sayForSecsBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *sayForSecsBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *sayForSecsBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.started {
		msg, err := evalInput(ctx, blocks, b.inputs, "MESSAGE", rt)
		if err != nil {
			return NextFail(err)
		}
		secs, err := evalInput(ctx, blocks, b.inputs, "SECS", rt)
		if err != nil {
			return NextFail(err)
		}
		rt.SetBubble(b.kind, msg.String())
		b.deadline = time.Now().Add(time.Duration(secs.AsFloat() * float64(time.Second)))
		b.started = true
	}
	if time.Now().Before(b.deadline) {
		return NextTo(b.id)
	}
	b.started = false
	rt.ClearBubble()
	return nextOrDone(b.stacks["next"])
}

// visibilityBlock backs looks_show/looks_hide.
type visibilityBlock struct {
	baseBlock
	visibility Visibility
}

func (b *visibilityBlock) Name() string {
	if b.visibility == Hide {
		return "looks_hide"
	}
	return "looks_show"
}
func (b *visibilityBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *visibilityBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *visibilityBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.SetVisible(b.visibility)
	return nextOrDone(b.stacks["next"])
}

// switchCostumeToBlock resolves COSTUME by name, falling back to the
// current costume if unmatched.
type switchCostumeToBlock struct{ baseBlock }

func (b *switchCostumeToBlock) Name() string            { return "looks_switchcostumeto" }
func (b *switchCostumeToBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *switchCostumeToBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *switchCostumeToBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	name, err := evalInput(ctx, blocks, b.inputs, "COSTUME", rt)
	if err != nil {
		return NextFail(err)
	}
	if idx, ok := rt.CostumeIndexByName(name.String()); ok {
		rt.SetCostume(idx)
	}
	return nextOrDone(b.stacks["next"])
}

type nextCostumeBlock struct{ baseBlock }

func (b *nextCostumeBlock) Name() string            { return "looks_nextcostume" }
func (b *nextCostumeBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *nextCostumeBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *nextCostumeBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.NextCostume()
	return nextOrDone(b.stacks["next"])
}

// setSizeToBlock scales the sprite relative to its authored costume size.
type setSizeToBlock struct{ baseBlock }

func (b *setSizeToBlock) Name() string            { return "looks_setsizeto" }
func (b *setSizeToBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setSizeToBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setSizeToBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	size, err := evalInput(ctx, blocks, b.inputs, "SIZE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.SetScalePercent(size.AsFloat())
	return nextOrDone(b.stacks["next"])
}

type sizeReporterBlock struct{ baseBlock }

func (b *sizeReporterBlock) Name() string            { return "looks_size" }
func (b *sizeReporterBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *sizeReporterBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *sizeReporterBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	return NumberValue(rt.ScalePercent()), nil
}

type costumeNumberNameBlock struct{ baseBlock }

func (b *costumeNumberNameBlock) Name() string            { return "looks_costumenumbername" }
func (b *costumeNumberNameBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *costumeNumberNameBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *costumeNumberNameBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	if b.field("NUMBER_NAME") == "name" {
		if rt.CurrentCostume < len(rt.Costumes) {
			return StringValue(rt.Costumes[rt.CurrentCostume].Name), nil
		}
		return StringValue(""), nil
	}
	return NumberValue(float64(rt.CurrentCostume + 1)), nil
}

// goLayerBlock backs looks_goforwardbackwardlayers, adjusting the sprite's
// draw order relative to its current position.
type goLayerBlock struct{ baseBlock }

func (b *goLayerBlock) Name() string            { return "looks_goforwardbackwardlayers" }
func (b *goLayerBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *goLayerBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *goLayerBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	n, err := evalInput(ctx, blocks, b.inputs, "NUM", rt)
	if err != nil {
		return NextFail(err)
	}
	delta := int64(n.AsFloat())
	if b.field("FORWARD_BACKWARD") == "backward" {
		delta = -delta
	}
	rt.Broadcaster().Send(BroadcastMsg{
		Kind:  KindChangeLayer,
		Sprite: rt.SpriteID,
		Layer: LayerChange{Sprite: rt.SpriteID, Kind: LayerChangeBy, ChangeBy: delta},
	})
	return nextOrDone(b.stacks["next"])
}

type goFrontBackBlock struct{ baseBlock }

func (b *goFrontBackBlock) Name() string            { return "looks_gotofrontback" }
func (b *goFrontBackBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *goFrontBackBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *goFrontBackBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	kind := LayerFront
	if b.field("FRONT_BACK") == "back" {
		kind = LayerBack
	}
	rt.Broadcaster().Send(BroadcastMsg{
		Kind:  KindChangeLayer,
		Sprite: rt.SpriteID,
		Layer: LayerChange{Sprite: rt.SpriteID, Kind: kind},
	})
	return nextOrDone(b.stacks["next"])
}

// noopLooksBlock backs the graphic-effect family (color/fisheye/whirl/
// pixelate/mosaic/brightness/ghost), excluded by the Non-goals but still
// required not to crash a project that uses them.
type noopLooksBlock struct {
	baseBlock
	name string
}

func (b *noopLooksBlock) Name() string            { return b.name }
func (b *noopLooksBlock) BlockInputs() BlockInputs { return b.blockInputs(b.name) }
func (b *noopLooksBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *noopLooksBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	return nextOrDone(b.stacks["next"])
}

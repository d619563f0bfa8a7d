package scratch

import "context"

func init() {
	registerBlock("pen_down", func(id BlockID) Block { return &penDownBlock{baseBlock: newBase(id)} })
	registerBlock("pen_up", func(id BlockID) Block { return &penUpBlock{baseBlock: newBase(id)} })
	registerBlock("pen_clear", func(id BlockID) Block { return &penClearBlock{baseBlock: newBase(id)} })
	registerBlock("pen_setPenColorToColor", func(id BlockID) Block { return &setPenColorToColorBlock{baseBlock: newBase(id)} })
	registerBlock("pen_setPenSizeTo", func(id BlockID) Block { return &setPenSizeToBlock{baseBlock: newBase(id)} })
	registerBlock("pen_changePenSizeBy", func(id BlockID) Block { return &changePenSizeByBlock{baseBlock: newBase(id)} })
	registerBlock("pen_setPenShadeToNumber", func(id BlockID) Block { return &setPenShadeToNumberBlock{baseBlock: newBase(id)} })
	registerBlock("pen_setPenHueToNumber", func(id BlockID) Block { return &setPenHueToNumberBlock{baseBlock: newBase(id)} })
	registerBlock("pen_stamp", func(id BlockID) Block { return &penStampBlock{baseBlock: newBase(id)} })
}

type penDownBlock struct{ baseBlock }

func (b *penDownBlock) Name() string            { return "pen_down" }
func (b *penDownBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *penDownBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *penDownBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.Lock()
	rt.Pen.Down(rt.Rectangle.Center)
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type penUpBlock struct{ baseBlock }

func (b *penUpBlock) Name() string            { return "pen_up" }
func (b *penUpBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *penUpBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *penUpBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.Lock()
	rt.Pen.Up()
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type penClearBlock struct{ baseBlock }

func (b *penClearBlock) Name() string            { return "pen_clear" }
func (b *penClearBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *penClearBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *penClearBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.Lock()
	rt.Pen.Clear()
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type setPenColorToColorBlock struct{ baseBlock }

func (b *setPenColorToColorBlock) Name() string            { return "pen_setPenColorToColor" }
func (b *setPenColorToColorBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setPenColorToColorBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setPenColorToColorBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "COLOR", rt)
	if err != nil {
		return NextFail(err)
	}
	hsv, err := ParseColor(v.String())
	if err != nil {
		return NextFail(err)
	}
	rt.Lock()
	rt.Pen.SetColor(hsv)
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type setPenSizeToBlock struct{ baseBlock }

func (b *setPenSizeToBlock) Name() string            { return "pen_setPenSizeTo" }
func (b *setPenSizeToBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setPenSizeToBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setPenSizeToBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "SIZE", rt)
	if err != nil {
		return NextFail(err)
	}
	size := v.AsFloat()
	if size < 1 {
		size = 1
	}
	rt.Lock()
	rt.Pen.SetSize(size)
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type changePenSizeByBlock struct{ baseBlock }

func (b *changePenSizeByBlock) Name() string            { return "pen_changePenSizeBy" }
func (b *changePenSizeByBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *changePenSizeByBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *changePenSizeByBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "SIZE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.Lock()
	size := rt.Pen.Size() + v.AsFloat()
	if size < 1 {
		size = 1
	}
	rt.Pen.SetSize(size)
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type setPenShadeToNumberBlock struct{ baseBlock }

func (b *setPenShadeToNumberBlock) Name() string            { return "pen_setPenShadeToNumber" }
func (b *setPenShadeToNumberBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setPenShadeToNumberBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setPenShadeToNumberBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "SHADE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.Lock()
	rt.Pen.SetColor(SetShade(rt.Pen.Color(), v.AsFloat()))
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

type setPenHueToNumberBlock struct{ baseBlock }

func (b *setPenHueToNumberBlock) Name() string            { return "pen_setPenHueToNumber" }
func (b *setPenHueToNumberBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setPenHueToNumberBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setPenHueToNumberBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "HUE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.Lock()
	rt.Pen.SetColor(SetHue(rt.Pen.Color(), v.AsFloat()))
	rt.markDirty()
	rt.Unlock()
	return nextOrDone(b.stacks["next"])
}

// penStampBlock only marks the sprite for redraw: the polyline-based Pen has
// no raster layer, so nothing is added to the pen lines and no costume image
// is stamped.
type penStampBlock struct{ baseBlock }

func (b *penStampBlock) Name() string            { return "pen_stamp" }
func (b *penStampBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *penStampBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *penStampBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	rt.markDirty()
	return nextOrDone(b.stacks["next"])
}

package scratch

import (
	"context"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

func init() {
	registerBlock("motion_movesteps", func(id BlockID) Block { return &moveStepsBlock{baseBlock: newBase(id)} })
	registerBlock("motion_gotoxy", func(id BlockID) Block { return &gotoXYBlock{baseBlock: newBase(id)} })
	registerBlock("motion_goto", func(id BlockID) Block { return &gotoBlock{baseBlock: newBase(id)} })
	registerBlock("motion_changexby", func(id BlockID) Block { return &changeXYByBlock{baseBlock: newBase(id), axis: axisX} })
	registerBlock("motion_changeyby", func(id BlockID) Block { return &changeXYByBlock{baseBlock: newBase(id), axis: axisY} })
	registerBlock("motion_setx", func(id BlockID) Block { return &setXYBlock{baseBlock: newBase(id), axis: axisX} })
	registerBlock("motion_sety", func(id BlockID) Block { return &setXYBlock{baseBlock: newBase(id), axis: axisY} })
	registerBlock("motion_pointindirection", func(id BlockID) Block { return &pointInDirectionBlock{baseBlock: newBase(id)} })
	registerBlock("motion_turnright", func(id BlockID) Block { return &turnBlock{baseBlock: newBase(id), sign: 1} })
	registerBlock("motion_turnleft", func(id BlockID) Block { return &turnBlock{baseBlock: newBase(id), sign: -1} })
	registerBlock("motion_glidesecstoxy", func(id BlockID) Block { return &glideSecsToXYBlock{baseBlock: newBase(id)} })
	registerBlock("motion_glideto", func(id BlockID) Block { return &glideToBlock{baseBlock: newBase(id)} })
	registerBlock("motion_xposition", func(id BlockID) Block { return &positionReporterBlock{baseBlock: newBase(id), axis: axisX} })
	registerBlock("motion_yposition", func(id BlockID) Block { return &positionReporterBlock{baseBlock: newBase(id), axis: axisY} })
	registerBlock("motion_direction", func(id BlockID) Block { return &directionReporterBlock{baseBlock: newBase(id)} })
}

type axis uint8

const (
	axisX axis = iota
	axisY
)

// moveStepsBlock moves the sprite STEPS units along +x only (Open Question
// #1: direction is tracked but does not bend motion_movesteps' path).
type moveStepsBlock struct{ baseBlock }

func (b *moveStepsBlock) Name() string            { return "motion_movesteps" }
func (b *moveStepsBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *moveStepsBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *moveStepsBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	steps, err := evalInput(ctx, blocks, b.inputs, "STEPS", rt)
	if err != nil {
		return NextFail(err)
	}
	c := rt.Center()
	rt.SetCenter(c.Add(SpriteCoordinate{X: steps.AsFloat(), Y: 0}))
	return nextOrDone(b.stacks["next"])
}

type gotoXYBlock struct{ baseBlock }

func (b *gotoXYBlock) Name() string            { return "motion_gotoxy" }
func (b *gotoXYBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *gotoXYBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *gotoXYBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	x, err := evalInput(ctx, blocks, b.inputs, "X", rt)
	if err != nil {
		return NextFail(err)
	}
	y, err := evalInput(ctx, blocks, b.inputs, "Y", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.SetCenter(SpriteCoordinate{X: x.AsFloat(), Y: y.AsFloat()})
	return nextOrDone(b.stacks["next"])
}

// gotoBlock backs the supplemented motion_goto/goto_menu target: "_random_"
// moves to the stage center (0, 0) and picks no random position, "_mouse_"
// tracks the pointer, anything else names a sprite whose current center is
// copied.
type gotoBlock struct{ baseBlock }

func (b *gotoBlock) Name() string            { return "motion_goto" }
func (b *gotoBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *gotoBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *gotoBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	target, err := evalInput(ctx, blocks, b.inputs, "TO", rt)
	if err != nil {
		return NextFail(err)
	}
	switch target.String() {
	case "_mouse_":
		if rt.EventSender() != nil {
			rt.SetCenter(rt.EventSender().MousePosition().ToSprite())
		}
	case "_random_":
		rt.SetCenter(SpriteCoordinate{})
	default:
		if rt.SpriteMap() != nil {
			if other, ok := rt.SpriteMap().GetByName(target.String()); ok {
				rt.SetCenter(other.Runtime.Center())
			}
		}
	}
	return nextOrDone(b.stacks["next"])
}

type changeXYByBlock struct {
	baseBlock
	axis axis
}

func (b *changeXYByBlock) Name() string {
	if b.axis == axisX {
		return "motion_changexby"
	}
	return "motion_changeyby"
}
func (b *changeXYByBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *changeXYByBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *changeXYByBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	slot := "DX"
	if b.axis == axisY {
		slot = "DY"
	}
	delta, err := evalInput(ctx, blocks, b.inputs, slot, rt)
	if err != nil {
		return NextFail(err)
	}
	c := rt.Center()
	if b.axis == axisX {
		c.X += delta.AsFloat()
	} else {
		c.Y += delta.AsFloat()
	}
	rt.SetCenter(c)
	return nextOrDone(b.stacks["next"])
}

type setXYBlock struct {
	baseBlock
	axis axis
}

func (b *setXYBlock) Name() string {
	if b.axis == axisX {
		return "motion_setx"
	}
	return "motion_sety"
}
func (b *setXYBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setXYBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setXYBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	slot := "X"
	if b.axis == axisY {
		slot = "Y"
	}
	v, err := evalInput(ctx, blocks, b.inputs, slot, rt)
	if err != nil {
		return NextFail(err)
	}
	c := rt.Center()
	if b.axis == axisX {
		c.X = v.AsFloat()
	} else {
		c.Y = v.AsFloat()
	}
	rt.SetCenter(c)
	return nextOrDone(b.stacks["next"])
}

type pointInDirectionBlock struct{ baseBlock }

func (b *pointInDirectionBlock) Name() string            { return "motion_pointindirection" }
func (b *pointInDirectionBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *pointInDirectionBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *pointInDirectionBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	d, err := evalInput(ctx, blocks, b.inputs, "DIRECTION", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.SetDirection(d.AsFloat())
	return nextOrDone(b.stacks["next"])
}

type turnBlock struct {
	baseBlock
	sign float64
}

func (b *turnBlock) Name() string {
	if b.sign < 0 {
		return "motion_turnleft"
	}
	return "motion_turnright"
}
func (b *turnBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *turnBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *turnBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	deg, err := evalInput(ctx, blocks, b.inputs, "DEGREES", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.SetDirection(rt.Direction + b.sign*deg.AsFloat())
	return nextOrDone(b.stacks["next"])
}

type positionReporterBlock struct {
	baseBlock
	axis axis
}

func (b *positionReporterBlock) Name() string {
	if b.axis == axisX {
		return "motion_xposition"
	}
	return "motion_yposition"
}
func (b *positionReporterBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *positionReporterBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *positionReporterBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	c := rt.Center()
	if b.axis == axisX {
		return NumberValue(c.X), nil
	}
	return NumberValue(c.Y), nil
}

type directionReporterBlock struct{ baseBlock }

func (b *directionReporterBlock) Name() string            { return "motion_direction" }
func (b *directionReporterBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *directionReporterBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *directionReporterBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	return NumberValue(rt.Direction), nil
}

// glideSecsToXYBlock tweens the sprite's center over SECS seconds using
// gween's linear easing, looping on itself each tick until the tween
// completes (supplemented feature 2, SPEC_FULL.md).
type glideSecsToXYBlock struct {
	baseBlock
	tweenX, tweenY *gween.Tween
	lastTick       time.Time
	gliding        bool
}

func (b *glideSecsToXYBlock) Name() string            { return "motion_glidesecstoxy" }
func (b *glideSecsToXYBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *glideSecsToXYBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *glideSecsToXYBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.gliding {
		secs, err := evalInput(ctx, blocks, b.inputs, "SECS", rt)
		if err != nil {
			return NextFail(err)
		}
		x, err := evalInput(ctx, blocks, b.inputs, "X", rt)
		if err != nil {
			return NextFail(err)
		}
		y, err := evalInput(ctx, blocks, b.inputs, "Y", rt)
		if err != nil {
			return NextFail(err)
		}
		from := rt.Center()
		b.tweenX = gween.New(float32(from.X), float32(x.AsFloat()), float32(secs.AsFloat()), ease.Linear)
		b.tweenY = gween.New(float32(from.Y), float32(y.AsFloat()), float32(secs.AsFloat()), ease.Linear)
		b.lastTick = time.Now()
		b.gliding = true
	}
	now := time.Now()
	dt := float32(now.Sub(b.lastTick).Seconds())
	b.lastTick = now
	px, _ := b.tweenX.Update(dt)
	py, done := b.tweenY.Update(dt)
	rt.SetCenter(SpriteCoordinate{X: float64(px), Y: float64(py)})
	if !done {
		return NextTo(b.id)
	}
	b.gliding = false
	return nextOrDone(b.stacks["next"])
}

// glideToBlock glides to a named target (sprite, "_mouse_", "_random_")
// over SECS seconds, resolving the destination once at glide start.
type glideToBlock struct {
	baseBlock
	tweenX, tweenY *gween.Tween
	lastTick       time.Time
	gliding        bool
}

func (b *glideToBlock) Name() string            { return "motion_glideto" }
func (b *glideToBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *glideToBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *glideToBlock) resolveTarget(rt *SpriteRuntime, name string) SpriteCoordinate {
	switch name {
	case "_mouse_":
		if rt.EventSender() != nil {
			return rt.EventSender().MousePosition().ToSprite()
		}
	case "_random_":
		return SpriteCoordinate{}
	default:
		if rt.SpriteMap() != nil {
			if other, ok := rt.SpriteMap().GetByName(name); ok {
				return other.Runtime.Center()
			}
		}
	}
	return rt.Center()
}

func (b *glideToBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	if !b.gliding {
		secs, err := evalInput(ctx, blocks, b.inputs, "SECS", rt)
		if err != nil {
			return NextFail(err)
		}
		target, err := evalInput(ctx, blocks, b.inputs, "TO", rt)
		if err != nil {
			return NextFail(err)
		}
		from := rt.Center()
		to := b.resolveTarget(rt, target.String())
		b.tweenX = gween.New(float32(from.X), float32(to.X), float32(secs.AsFloat()), ease.Linear)
		b.tweenY = gween.New(float32(from.Y), float32(to.Y), float32(secs.AsFloat()), ease.Linear)
		b.lastTick = time.Now()
		b.gliding = true
	}
	now := time.Now()
	dt := float32(now.Sub(b.lastTick).Seconds())
	b.lastTick = now
	px, _ := b.tweenX.Update(dt)
	py, done := b.tweenY.Update(dt)
	rt.SetCenter(SpriteCoordinate{X: float64(px), Y: float64(py)})
	if !done {
		return NextTo(b.id)
	}
	b.gliding = false
	return nextOrDone(b.stacks["next"])
}

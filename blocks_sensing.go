package scratch

import (
	"context"
	"strings"
)

func init() {
	registerBlock("sensing_keypressed", func(id BlockID) Block { return &keyPressedBlock{baseBlock: newBase(id)} })
	registerBlock("sensing_touchingobject", func(id BlockID) Block { return &touchingObjectBlock{baseBlock: newBase(id)} })
	registerBlock("sensing_touchingcolor", func(id BlockID) Block { return &touchingColorBlock{baseBlock: newBase(id)} })
	registerBlock("sensing_coloristouchingcolor", func(id BlockID) Block { return &colorIsTouchingColorBlock{baseBlock: newBase(id)} })
	registerBlock("sensing_mousex", func(id BlockID) Block { return &mousePositionBlock{baseBlock: newBase(id), axis: axisX} })
	registerBlock("sensing_mousey", func(id BlockID) Block { return &mousePositionBlock{baseBlock: newBase(id), axis: axisY} })
	registerBlock("sensing_mousedown", func(id BlockID) Block { return &mouseDownBlock{baseBlock: newBase(id)} })
}

// keyNameToKeyboardKey maps sb3's KEY_OPTION field spelling to KeyboardKey.
func keyNameToKeyboardKey(name string) (KeyboardKey, bool) {
	switch strings.ToLower(name) {
	case "space":
		return KeySpace, true
	case "up arrow":
		return KeyUp, true
	case "down arrow":
		return KeyDown, true
	case "left arrow":
		return KeyLeft, true
	case "right arrow":
		return KeyRight, true
	}
	if len(name) == 1 {
		c := strings.ToUpper(name)[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return KeyA + KeyboardKey(c-'A'), true
		case c >= '0' && c <= '9':
			return Key0 + KeyboardKey(c-'0'), true
		}
	}
	return 0, false
}

type keyPressedBlock struct{ baseBlock }

func (b *keyPressedBlock) Name() string            { return "sensing_keypressed" }
func (b *keyPressedBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *keyPressedBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *keyPressedBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	name, err := evalInput(ctx, blocks, b.inputs, "KEY_OPTION", rt)
	if err != nil {
		return Null, err
	}
	key, ok := keyNameToKeyboardKey(name.String())
	if !ok || rt.EventSender() == nil {
		return BoolValue(false), nil
	}
	return BoolValue(rt.EventSender().IsKeyPressed(key)), nil
}

// touchingObjectBlock backs sensing_touchingobject: "_mouse_" tests the
// pointer against the sprite's rectangle, "_edge_" tests against the
// canvas bounds, and a named sprite tests rectangle intersection.
type touchingObjectBlock struct{ baseBlock }

func (b *touchingObjectBlock) Name() string            { return "sensing_touchingobject" }
func (b *touchingObjectBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *touchingObjectBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *touchingObjectBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	target, err := evalInput(ctx, blocks, b.inputs, "TOUCHINGOBJECTMENU", rt)
	if err != nil {
		return Null, err
	}
	switch target.String() {
	case "_mouse_":
		if rt.EventSender() == nil {
			return BoolValue(false), nil
		}
		return BoolValue(rt.Rectangle.Contains(rt.EventSender().MousePosition().ToSprite())), nil
	case "_edge_":
		tl, br := rt.Rectangle.TopLeft(), rt.Rectangle.BottomRight()
		edge := tl.X <= -CanvasWidth/2 || br.X >= CanvasWidth/2 || tl.Y >= CanvasHeight/2 || br.Y <= -CanvasHeight/2
		return BoolValue(edge), nil
	default:
		if rt.SpriteMap() == nil {
			return BoolValue(false), nil
		}
		other, ok := rt.SpriteMap().GetByName(target.String())
		if !ok {
			return BoolValue(false), nil
		}
		return BoolValue(rt.Rectangle.Intersects(other.Runtime.Rectangle)), nil
	}
}

// touchingColorBlock and colorIsTouchingColorBlock report false: without a
// rasterized canvas to sample, pixel-level color collision cannot be
// evaluated. Declared so projects using these blocks still build and run
// rather than failing block construction.
type touchingColorBlock struct{ baseBlock }

func (b *touchingColorBlock) Name() string            { return "sensing_touchingcolor" }
func (b *touchingColorBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *touchingColorBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *touchingColorBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return BoolValue(false), nil
}

type colorIsTouchingColorBlock struct{ baseBlock }

func (b *colorIsTouchingColorBlock) Name() string            { return "sensing_coloristouchingcolor" }
func (b *colorIsTouchingColorBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *colorIsTouchingColorBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}
func (b *colorIsTouchingColorBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return BoolValue(false), nil
}

// mousePositionBlock backs the supplemented sensing_mousex/sensing_mousey
// reporters (SPEC_FULL.md supplemented feature 4).
type mousePositionBlock struct {
	baseBlock
	axis axis
}

func (b *mousePositionBlock) Name() string {
	if b.axis == axisX {
		return "sensing_mousex"
	}
	return "sensing_mousey"
}
func (b *mousePositionBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *mousePositionBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *mousePositionBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	if rt.EventSender() == nil {
		return NumberValue(0), nil
	}
	pos := rt.EventSender().MousePosition().ToSprite()
	if b.axis == axisX {
		return NumberValue(pos.X), nil
	}
	return NumberValue(pos.Y), nil
}

type mouseDownBlock struct{ baseBlock }

func (b *mouseDownBlock) Name() string            { return "sensing_mousedown" }
func (b *mouseDownBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *mouseDownBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *mouseDownBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	if rt.EventSender() == nil {
		return BoolValue(false), nil
	}
	return BoolValue(rt.EventSender().MouseDown()), nil
}

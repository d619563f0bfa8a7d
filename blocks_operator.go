package scratch

import (
	"context"
	"math"
	"math/rand"
	"strings"
)

func init() {
	registerBlock("operator_add", func(id BlockID) Block { return &arithmeticBlock{baseBlock: newBase(id), op: opAdd} })
	registerBlock("operator_subtract", func(id BlockID) Block { return &arithmeticBlock{baseBlock: newBase(id), op: opSubtract} })
	registerBlock("operator_multiply", func(id BlockID) Block { return &arithmeticBlock{baseBlock: newBase(id), op: opMultiply} })
	registerBlock("operator_divide", func(id BlockID) Block { return &arithmeticBlock{baseBlock: newBase(id), op: opDivide} })
	registerBlock("operator_lt", func(id BlockID) Block { return &compareBlock{baseBlock: newBase(id), op: cmpLess} })
	registerBlock("operator_gt", func(id BlockID) Block { return &compareBlock{baseBlock: newBase(id), op: cmpGreater} })
	registerBlock("operator_equals", func(id BlockID) Block { return &compareBlock{baseBlock: newBase(id), op: cmpEqual} })
	registerBlock("operator_and", func(id BlockID) Block { return &boolBlock{baseBlock: newBase(id), op: boolAnd} })
	registerBlock("operator_or", func(id BlockID) Block { return &boolBlock{baseBlock: newBase(id), op: boolOr} })
	registerBlock("operator_not", func(id BlockID) Block { return &notBlock{baseBlock: newBase(id)} })
	registerBlock("operator_join", func(id BlockID) Block { return &joinBlock{baseBlock: newBase(id)} })
	registerBlock("operator_random", func(id BlockID) Block { return &randomBlock{baseBlock: newBase(id)} })
	registerBlock("operator_mod", func(id BlockID) Block { return &modBlock{baseBlock: newBase(id)} })
}

type arithmeticOp uint8

const (
	opAdd arithmeticOp = iota
	opSubtract
	opMultiply
	opDivide
)

// arithmeticBlock evaluates NUM1/NUM2 as numbers (non-numeric coerces to 0,
// matching Scratch's reporter semantics).
type arithmeticBlock struct {
	baseBlock
	op arithmeticOp
}

func (b *arithmeticBlock) Name() string {
	switch b.op {
	case opAdd:
		return "operator_add"
	case opSubtract:
		return "operator_subtract"
	case opMultiply:
		return "operator_multiply"
	default:
		return "operator_divide"
	}
}
func (b *arithmeticBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *arithmeticBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *arithmeticBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	n1, err := evalInput(ctx, blocks, b.inputs, "NUM1", rt)
	if err != nil {
		return Null, err
	}
	n2, err := evalInput(ctx, blocks, b.inputs, "NUM2", rt)
	if err != nil {
		return Null, err
	}
	a, c := n1.AsFloat(), n2.AsFloat()
	switch b.op {
	case opAdd:
		return NumberValue(a + c), nil
	case opSubtract:
		return NumberValue(a - c), nil
	case opMultiply:
		return NumberValue(a * c), nil
	default:
		if c == 0 {
			if a == 0 {
				return NumberValue(math.NaN()), nil
			}
			return NumberValue(math.Inf(int(math.Copysign(1, a)))), nil
		}
		return NumberValue(a / c), nil
	}
}

type compareOp uint8

const (
	cmpLess compareOp = iota
	cmpGreater
	cmpEqual
)

// compareBlock compares OPERAND1/OPERAND2. equals uses ValuesEqual (Open
// Question #2: null-to-false stays false); lt/gt prefer numeric comparison
// when both operands parse as numbers, falling back to case-insensitive
// string ordering otherwise.
type compareBlock struct {
	baseBlock
	op compareOp
}

func (b *compareBlock) Name() string {
	switch b.op {
	case cmpLess:
		return "operator_lt"
	case cmpGreater:
		return "operator_gt"
	default:
		return "operator_equals"
	}
}
func (b *compareBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *compareBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *compareBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	v1, err := evalInput(ctx, blocks, b.inputs, "OPERAND1", rt)
	if err != nil {
		return Null, err
	}
	v2, err := evalInput(ctx, blocks, b.inputs, "OPERAND2", rt)
	if err != nil {
		return Null, err
	}
	if b.op == cmpEqual {
		return BoolValue(ValuesEqual(v1, v2)), nil
	}
	f1, ok1 := v1.TryFloat()
	f2, ok2 := v2.TryFloat()
	var less bool
	if ok1 && ok2 {
		less = f1 < f2
	} else {
		less = strings.ToLower(v1.String()) < strings.ToLower(v2.String())
	}
	if b.op == cmpLess {
		return BoolValue(less), nil
	}
	equal := ValuesEqual(v1, v2)
	return BoolValue(!less && !equal), nil
}

type boolOp uint8

const (
	boolAnd boolOp = iota
	boolOr
)

type boolBlock struct {
	baseBlock
	op boolOp
}

func (b *boolBlock) Name() string {
	if b.op == boolOr {
		return "operator_or"
	}
	return "operator_and"
}
func (b *boolBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *boolBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *boolBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	v1, err := evalInput(ctx, blocks, b.inputs, "OPERAND1", rt)
	if err != nil {
		return Null, err
	}
	v2, err := evalInput(ctx, blocks, b.inputs, "OPERAND2", rt)
	if err != nil {
		return Null, err
	}
	if b.op == boolOr {
		return BoolValue(v1.AsBool() || v2.AsBool()), nil
	}
	return BoolValue(v1.AsBool() && v2.AsBool()), nil
}

type notBlock struct{ baseBlock }

func (b *notBlock) Name() string            { return "operator_not" }
func (b *notBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *notBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *notBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	v, err := evalInput(ctx, blocks, b.inputs, "OPERAND", rt)
	if err != nil {
		return Null, err
	}
	return BoolValue(!v.AsBool()), nil
}

type joinBlock struct{ baseBlock }

func (b *joinBlock) Name() string            { return "operator_join" }
func (b *joinBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *joinBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *joinBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	s1, err := evalInput(ctx, blocks, b.inputs, "STRING1", rt)
	if err != nil {
		return Null, err
	}
	s2, err := evalInput(ctx, blocks, b.inputs, "STRING2", rt)
	if err != nil {
		return Null, err
	}
	return StringValue(s1.String() + s2.String()), nil
}

// randomBlock picks uniformly between FROM and TO, integral if both
// operands are written as integers.
type randomBlock struct{ baseBlock }

func (b *randomBlock) Name() string            { return "operator_random" }
func (b *randomBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *randomBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func isIntegral(v Value) bool {
	f := v.AsFloat()
	return f == math.Trunc(f)
}

func (b *randomBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	from, err := evalInput(ctx, blocks, b.inputs, "FROM", rt)
	if err != nil {
		return Null, err
	}
	to, err := evalInput(ctx, blocks, b.inputs, "TO", rt)
	if err != nil {
		return Null, err
	}
	lo, hi := from.AsFloat(), to.AsFloat()
	if lo > hi {
		lo, hi = hi, lo
	}
	if isIntegral(from) && isIntegral(to) {
		return NumberValue(float64(int64(lo) + rand.Int63n(int64(hi)-int64(lo)+1))), nil
	}
	return NumberValue(lo + rand.Float64()*(hi-lo)), nil
}

type modBlock struct{ baseBlock }

func (b *modBlock) Name() string            { return "operator_mod" }
func (b *modBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *modBlock) Execute(context.Context, *SpriteRuntime, map[BlockID]Block) Next {
	return NextDone()
}

func (b *modBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	n1, err := evalInput(ctx, blocks, b.inputs, "NUM1", rt)
	if err != nil {
		return Null, err
	}
	n2, err := evalInput(ctx, blocks, b.inputs, "NUM2", rt)
	if err != nil {
		return Null, err
	}
	a, m := n1.AsFloat(), n2.AsFloat()
	if m == 0 {
		return NumberValue(math.NaN()), nil
	}
	r := math.Mod(a, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return NumberValue(r), nil
}

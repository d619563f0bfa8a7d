package scratch

import "context"

func init() {
	registerBlock("data_setvariableto", func(id BlockID) Block { return &setVariableToBlock{baseBlock: newBase(id)} })
	registerBlock("data_changevariableby", func(id BlockID) Block { return &changeVariableByBlock{baseBlock: newBase(id)} })
	registerBlock("data_showvariable", func(id BlockID) Block { return &variableVisibilityBlock{baseBlock: newBase(id)} })
	registerBlock("data_hidevariable", func(id BlockID) Block { return &variableVisibilityBlock{baseBlock: newBase(id)} })
}

// variableID extracts the variable id carried by a VARIABLE field, which
// the sb3 format stores as [name, id].
func (b *baseBlock) variableID(slot string) string {
	if v, ok := b.fields[slot]; ok && len(v) > 1 {
		return v[1]
	}
	return b.field(slot)
}

// setVariableToBlock writes the named variable with the evaluated VALUE
// input.
type setVariableToBlock struct{ baseBlock }

func (b *setVariableToBlock) Name() string            { return "data_setvariableto" }
func (b *setVariableToBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *setVariableToBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *setVariableToBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	v, err := evalInput(ctx, blocks, b.inputs, "VALUE", rt)
	if err != nil {
		return NextFail(err)
	}
	rt.Variables.Set(b.variableID("VARIABLE"), v)
	return nextOrDone(b.stacks["next"])
}

// changeVariableByBlock reads-modify-writes: previous (coerced to float,
// default 0) plus the evaluated VALUE input (coerced to float). A
// non-numeric, non-empty string previous value is an error.
type changeVariableByBlock struct{ baseBlock }

func (b *changeVariableByBlock) Name() string            { return "data_changevariableby" }
func (b *changeVariableByBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *changeVariableByBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *changeVariableByBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	delta, err := evalInput(ctx, blocks, b.inputs, "VALUE", rt)
	if err != nil {
		return NextFail(err)
	}
	id := b.variableID("VARIABLE")
	prev := rt.Variables.Get(id)
	if _, ok := prev.TryFloat(); !ok && prev.Kind() == KindString {
		return NextFail(wrongType("VARIABLE", prev))
	}
	rt.Variables.ChangeBy(id, delta.AsFloat())
	return nextOrDone(b.stacks["next"])
}

// variableVisibilityBlock backs data_showvariable/data_hidevariable: the
// runtime never reads a monitor-visibility slot (supplemented feature 5),
// so both are true no-ops that forward to next.
type variableVisibilityBlock struct{ baseBlock }

func (b *variableVisibilityBlock) Name() string            { return "data_variable_visibility" }
func (b *variableVisibilityBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }
func (b *variableVisibilityBlock) Value(context.Context, *SpriteRuntime, map[BlockID]Block) (Value, error) {
	return Null, nil
}

func (b *variableVisibilityBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	return nextOrDone(b.stacks["next"])
}

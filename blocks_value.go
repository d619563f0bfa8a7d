package scratch

import (
	"context"
	"strconv"
	"strings"
)

func parseFloatLenient(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// literalBlock is a pseudo-id reporter synthesized by the block tree
// builder for embedded literal inputs (spec §4.1 step 2, value-type codes
// 4-11). It always returns the same constant.
type literalBlock struct {
	baseBlock
	value Value
}

func newLiteralBlock(id BlockID, v Value) Block {
	return &literalBlock{baseBlock: newBase(id), value: v}
}

func (b *literalBlock) Name() string { return "value_literal" }

func (b *literalBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }

func (b *literalBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	return NextDone()
}

func (b *literalBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	return b.value, nil
}

// variableBlock is a pseudo-id reporter synthesized for variable
// references (spec §4.1 step 2, value-type codes 12/13, and type=2|3
// payloads that are arrays). It reads from the global variable map by id.
type variableBlock struct {
	baseBlock
	variableID string
}

func newVariableBlock(id BlockID, variableID string) Block {
	return &variableBlock{baseBlock: newBase(id), variableID: variableID}
}

func (b *variableBlock) Name() string { return "data_variable" }

func (b *variableBlock) BlockInputs() BlockInputs { return b.blockInputs(b.Name()) }

func (b *variableBlock) Execute(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) Next {
	return NextDone()
}

func (b *variableBlock) Value(ctx context.Context, rt *SpriteRuntime, blocks map[BlockID]Block) (Value, error) {
	return rt.Variables.Get(b.variableID), nil
}

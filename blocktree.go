package scratch

import (
	"encoding/json"
	"fmt"
)

// blockConstructors maps an opcode to a constructor for its runtime Block.
// Populated by init() in each blocks_*.go file — the block catalog
// registers itself rather than blocktree.go hardcoding a family-by-family
// switch, keeping each family file self-contained the way the teacher
// keeps each concern (camera, atlas, mesh) in its own file.
var blockConstructors = map[string]func(BlockID) Block{}

func registerBlock(opcode string, ctor func(BlockID) Block) {
	blockConstructors[opcode] = ctor
}

// BuildBlockTree lowers the serialized blocks reachable from hatStringID
// into a typed, linked tree. It returns the hat's BlockID and the flattened
// id-keyed map of every block reachable from it (spec §4.1, §8 property 1:
// every reachable block appears exactly once, no orphans).
func BuildBlockTree(hatStringID string, serialized map[string]SerializedBlock) (BlockID, map[BlockID]Block, error) {
	blocks := make(map[BlockID]Block)
	hatID := BlockIDFromString(hatStringID)
	if err := buildBlock(hatStringID, hatID, serialized, blocks); err != nil {
		return ZeroBlockID, nil, err
	}
	return hatID, blocks, nil
}

func buildBlock(stringID string, id BlockID, serialized map[string]SerializedBlock, blocks map[BlockID]Block) error {
	if _, done := blocks[id]; done {
		return nil
	}
	sb, ok := serialized[stringID]
	if !ok {
		return &BlockInitializationError{ID: id, Category: "lookup", Cause: fmt.Errorf("block id %q not found", stringID)}
	}
	ctor, ok := blockConstructors[sb.Opcode]
	if !ok {
		return &BlockInitializationError{ID: id, Category: sb.Opcode, Cause: fmt.Errorf("unknown opcode %q", sb.Opcode)}
	}
	block := ctor(id)
	blocks[id] = block

	if sb.Next != nil {
		nextID := BlockIDFromString(*sb.Next)
		if err := buildBlock(*sb.Next, nextID, serialized, blocks); err != nil {
			return err
		}
		block.SetSubstack("next", nextID)
	}

	for slot, raw := range sb.Inputs {
		if err := buildInput(slot, raw, serialized, blocks, block); err != nil {
			return &BlockInitializationError{ID: id, Category: sb.Opcode, Cause: err}
		}
	}

	for slot, raw := range sb.Fields {
		literal, err := decodeFieldLiteral(raw)
		if err != nil {
			return &BlockInitializationError{ID: id, Category: sb.Opcode, Cause: err}
		}
		block.SetField(slot, literal)
	}

	return nil
}

// buildInput parses one tagged input-spec array and wires the result into
// parent, per spec §4.1 step 2.
func buildInput(slot string, raw json.RawMessage, serialized map[string]SerializedBlock, blocks map[BlockID]Block, parent Block) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) < 2 {
		return fmt.Errorf("input %q: malformed input array", slot)
	}
	var tag int
	if err := json.Unmarshal(arr[0], &tag); err != nil {
		return fmt.Errorf("input %q: malformed tag: %w", slot, err)
	}

	switch tag {
	case 1:
		return buildLiteralInput(slot, arr[1], blocks, parent)
	case 2, 3:
		return buildBlockOrVariableInput(slot, arr[1], serialized, blocks, parent)
	default:
		return fmt.Errorf("input %q: unknown input tag %d", slot, tag)
	}
}

// buildLiteralInput handles type=1 embedded literals, synthesizing a
// pseudo-id Value or Variable reporter depending on the inner value-type
// code.
func buildLiteralInput(slot string, payload json.RawMessage, blocks map[BlockID]Block, parent Block) error {
	var inner []json.RawMessage
	if err := json.Unmarshal(payload, &inner); err != nil || len(inner) < 2 {
		return fmt.Errorf("input %q: malformed literal payload", slot)
	}
	var valueType int
	if err := json.Unmarshal(inner[0], &valueType); err != nil {
		return fmt.Errorf("input %q: malformed value type: %w", slot, err)
	}

	switch {
	case valueType >= 4 && valueType <= 8: // Number
		var s string
		_ = json.Unmarshal(inner[1], &s)
		var f float64
		_ = json.Unmarshal(inner[1], &f)
		if s != "" {
			f = parseFloatLenient(s)
		}
		attachLiteral(slot, NumberValue(f), blocks, parent)
	case valueType == 9: // Color
		var s string
		_ = json.Unmarshal(inner[1], &s)
		attachLiteral(slot, StringValue(s), blocks, parent)
	case valueType == 10: // String
		var s string
		_ = json.Unmarshal(inner[1], &s)
		attachLiteral(slot, StringValue(s), blocks, parent)
	case valueType == 11: // Broadcast name
		var s string
		_ = json.Unmarshal(inner[1], &s)
		attachLiteral(slot, StringValue(s), blocks, parent)
	case valueType == 12 || valueType == 13: // Variable/List reference
		if len(inner) < 3 {
			return fmt.Errorf("input %q: variable literal missing id", slot)
		}
		var varID string
		_ = json.Unmarshal(inner[2], &varID)
		attachVariable(slot, varID, blocks, parent)
	default:
		return fmt.Errorf("input %q: unknown value type %d", slot, valueType)
	}
	return nil
}

// buildBlockOrVariableInput handles type=2|3: either a block-id string to
// recurse into, or a variable-reference array whose third element is the
// variable id.
func buildBlockOrVariableInput(slot string, payload json.RawMessage, serialized map[string]SerializedBlock, blocks map[BlockID]Block, parent Block) error {
	var childStringID string
	if err := json.Unmarshal(payload, &childStringID); err == nil {
		childID := BlockIDFromString(childStringID)
		if err := buildBlock(childStringID, childID, serialized, blocks); err != nil {
			return err
		}
		parent.SetInput(slot, childID)
		return nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil || len(arr) < 3 {
		return fmt.Errorf("input %q: malformed block-or-variable payload", slot)
	}
	var varID string
	_ = json.Unmarshal(arr[2], &varID)
	attachVariable(slot, varID, blocks, parent)
	return nil
}

func attachLiteral(slot string, v Value, blocks map[BlockID]Block, parent Block) {
	id := NewPseudoBlockID()
	blocks[id] = newLiteralBlock(id, v)
	parent.SetInput(slot, id)
}

func attachVariable(slot string, variableID string, blocks map[BlockID]Block, parent Block) {
	id := NewPseudoBlockID()
	blocks[id] = newVariableBlock(id, variableID)
	parent.SetInput(slot, id)
}

func decodeFieldLiteral(raw json.RawMessage) ([]string, error) {
	var arr []interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("malformed field array: %w", err)
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		switch t := v.(type) {
		case nil:
			out = append(out, "")
		case string:
			out = append(out, t)
		default:
			out = append(out, fmt.Sprintf("%v", t))
		}
	}
	return out, nil
}

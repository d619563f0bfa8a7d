package scratch

import "context"

// ThreadID identifies one thread within one sprite.
type ThreadID struct {
	Sprite SpriteID
	Index  int
}

// StepOutcome tells the caller whether a thread is still runnable after one
// step.
type StepOutcome uint8

const (
	StepAlive StepOutcome = iota
	StepDone
	StepFailed
)

// Thread is a single cooperative script: the block tree rooted at one hat,
// a cursor, and a loop-return stack. Grounded on
// original_source/src/thread.rs.
type Thread struct {
	id     ThreadID
	blocks map[BlockID]Block
	cursor BlockID
	loopStack []BlockID
	done   bool
	lastErr error
}

// NewThread builds a thread from a hat's already-lowered block tree.
func NewThread(id ThreadID, hat BlockID, blocks map[BlockID]Block) *Thread {
	return &Thread{id: id, blocks: blocks, cursor: hat}
}

// Terminate forcibly marks the thread done without running another step,
// used when a Stop message drops it (spec §5 cancellation: "next
// scheduling encounter drops it").
func (t *Thread) Terminate() { t.done = true }

func (t *Thread) ID() ThreadID { return t.id }
func (t *Thread) Done() bool   { return t.done }
func (t *Thread) Err() error   { return t.lastErr }

// Blocks exposes the thread's flattened block map, for introspection and
// the §8 build round-trip test.
func (t *Thread) Blocks() map[BlockID]Block { return t.blocks }

// Cursor returns the block the next Step will execute. Invalid once Done.
func (t *Thread) Cursor() BlockID { return t.cursor }

// Step executes exactly one block's Execute and applies the resulting
// transition (spec §4.3):
//   - Continue(b): cursor = b.
//   - Loop(b): push cursor, cursor = b.
//   - None: pop loop_stack into cursor; empty stack marks done.
//   - Err(e): wrap and return; the VM drops the thread.
func (t *Thread) Step(ctx context.Context, rt *SpriteRuntime) StepOutcome {
	if t.done {
		return StepDone
	}
	block, ok := t.blocks[t.cursor]
	if !ok {
		t.lastErr = &BlockError{ID: t.cursor, Name: "?", Cause: errBlockNotFound}
		t.done = true
		return StepFailed
	}
	next := block.Execute(withThreadID(ctx, t.id), rt, t.blocks)
	switch next.Kind {
	case NextContinue:
		t.cursor = next.Block
		return StepAlive
	case NextLoop:
		t.loopStack = append(t.loopStack, t.cursor)
		t.cursor = next.Block
		return StepAlive
	case NextNone:
		if len(t.loopStack) == 0 {
			t.done = true
			return StepDone
		}
		t.cursor = t.loopStack[len(t.loopStack)-1]
		t.loopStack = t.loopStack[:len(t.loopStack)-1]
		return StepAlive
	case NextErr:
		t.lastErr = &BlockError{ID: block.ID(), Name: block.Name(), Cause: next.Err}
		t.done = true
		return StepFailed
	default:
		t.done = true
		return StepDone
	}
}

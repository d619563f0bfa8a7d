package scratch

import "fmt"

// InitializationError covers malformed projects, unknown opcodes, unknown
// input/value types, and missing referenced blocks. It's surfaced to the
// host at load time; the VM refuses to start when one occurs.
type InitializationError struct {
	Cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("scratch: initialization failed: %v", e.Cause)
}

func (e *InitializationError) Unwrap() error { return e.Cause }

// BlockInitializationError wraps a failure building one block during tree
// construction, carrying the offending BlockID and opcode category.
type BlockInitializationError struct {
	ID       BlockID
	Category string
	Cause    error
}

func (e *BlockInitializationError) Error() string {
	return fmt.Sprintf("scratch: build block %s (%s): %v", e.ID, e.Category, e.Cause)
}

func (e *BlockInitializationError) Unwrap() error { return e.Cause }

// BlockError reports a runtime failure of one block: a null slot, a wrong
// type, an out-of-range costume index. It terminates only the originating
// Thread; other Threads in the same sprite are unaffected.
type BlockError struct {
	ID    BlockID
	Name  string
	Cause error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("scratch: block %s (%s): %v", e.ID, e.Name, e.Cause)
}

func (e *BlockError) Unwrap() error { return e.Cause }

// ChannelError marks a send/receive on the Broadcaster failing because all
// subscribers have dropped. Treated as benign end-of-run, never surfaced to
// the host as a failure.
type ChannelError struct {
	Cause error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("scratch: broadcaster channel closed: %v", e.Cause)
}

func (e *ChannelError) Unwrap() error { return e.Cause }

// SinkError reports a drawing sink failure. It's logged and the frame is
// dropped; the VM continues running.
type SinkError struct {
	Cause error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("scratch: drawing sink: %v", e.Cause)
}

func (e *SinkError) Unwrap() error { return e.Cause }

// wrongType builds the BlockError cause used throughout the block catalog
// when a slot's runtime value doesn't fit the operation's expected shape.
func wrongType(slot string, got Value) error {
	return fmt.Errorf("slot %q: unexpected value %q", slot, got.String())
}

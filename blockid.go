package scratch

import (
	"encoding/hex"
)

// BlockID is the editor's 20-byte opaque block identifier. It's copyable,
// orderable (via ==, and lexically via Less), hashable (usable as a map
// key), and displayable as its first 10 bytes for logs.
type BlockID [20]byte

// ZeroBlockID is the nil identifier; no real or pseudo block ever carries it.
var ZeroBlockID BlockID

// pseudoCounter mints bytes 1-8 (big-endian, after the 0xFF tag) of pseudo-ids for blocks synthesized at
// load time (numeric literals, variable readers) that have no serialized id.
var pseudoCounter uint64

// NewPseudoBlockID returns a fresh identifier for a synthesized block. The
// first byte is 0xFF, a tag no real editor-assigned id carries (those are
// base64-alphabet characters re-encoded by the caller before reaching here,
// never raw 0xFF), so pseudo-ids never collide with serialized ones.
func NewPseudoBlockID() BlockID {
	pseudoCounter++
	var id BlockID
	id[0] = 0xFF
	id[1] = byte(pseudoCounter >> 56)
	id[2] = byte(pseudoCounter >> 48)
	id[3] = byte(pseudoCounter >> 40)
	id[4] = byte(pseudoCounter >> 32)
	id[5] = byte(pseudoCounter >> 24)
	id[6] = byte(pseudoCounter >> 16)
	id[7] = byte(pseudoCounter >> 8)
	id[8] = byte(pseudoCounter)
	return id
}

// IsPseudo reports whether id was synthesized rather than read from the
// project file.
func (id BlockID) IsPseudo() bool {
	return id[0] == 0xFF
}

// BlockIDFromString derives a BlockID from the project file's string
// identifier (the editor's own id alphabet). Ids shorter than 20 bytes are
// copied into the leading bytes with the rest left zero; longer ones are
// truncated, matching the "exactly
// the editor's identifier width" contract in spec form while tolerating
// projects with non-conforming ids.
func BlockIDFromString(s string) BlockID {
	var id BlockID
	b := []byte(s)
	n := copy(id[:], b)
	_ = n
	return id
}

// String renders the first 10 bytes as hex, sufficient to disambiguate ids
// in logs without printing the full 20 bytes.
func (id BlockID) String() string {
	return hex.EncodeToString(id[:10])
}

// Less orders ids byte-lexically, used to sort hats for deterministic
// thread indices.
func (id BlockID) Less(other BlockID) bool {
	for i := range id {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}

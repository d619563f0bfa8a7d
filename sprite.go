package scratch

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// SpriteID is a 64-bit hash of the sprite's name; clones extend the name
// with "clone" + a counter until the hash is unique within the run (spec
// §3).
type SpriteID uint64

// HashSpriteName derives a SpriteID from a sprite name.
func HashSpriteName(name string) SpriteID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return SpriteID(h.Sum64())
}

// Sprite owns one SpriteRuntime and the threads spawned from its hats. It
// retains the original Target so clones can rebuild their threads (spec
// §3).
type Sprite struct {
	ID      SpriteID
	Name    string
	Runtime *SpriteRuntime
	Threads []*Thread
	target  Target
}

// isHat reports whether a serialized block is a top-level hat: top_level
// and its opcode names an event (contains "_when") or is
// control_start_as_clone (spec §4.4).
func isHat(opcode string, topLevel bool) bool {
	if !topLevel {
		return false
	}
	return strings.Contains(opcode, "_when") || opcode == "control_start_as_clone"
}

// NewSprite builds a Sprite from target: one Thread per hat, hats sorted
// by BlockID for deterministic thread indices.
func NewSprite(id SpriteID, target Target, runtime *SpriteRuntime) (*Sprite, error) {
	s := &Sprite{ID: id, Name: target.Name, Runtime: runtime, target: target}
	if err := s.buildThreads(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sprite) buildThreads() error {
	type hatEntry struct {
		stringID string
		id       BlockID
	}
	var hats []hatEntry
	for stringID, b := range s.target.Blocks {
		if isHat(b.Opcode, b.TopLevel) {
			hats = append(hats, hatEntry{stringID: stringID, id: BlockIDFromString(stringID)})
		}
	}
	sort.Slice(hats, func(i, j int) bool { return hats[i].id.Less(hats[j].id) })

	for i, h := range hats {
		hatID, blocks, err := BuildBlockTree(h.stringID, s.target.Blocks)
		if err != nil {
			return err
		}
		tid := ThreadID{Sprite: s.ID, Index: i}
		s.Threads = append(s.Threads, NewThread(tid, hatID, blocks))
	}
	return nil
}

// buildCloneThreads rebuilds threads from the same Target after cloning,
// filtered to start-as-clone hats only (spec §4.4: "only start-as-clone
// hats will execute, the others self-terminate" — filtering here is
// equivalent and avoids building dead threads).
func (s *Sprite) buildCloneThreads() error {
	type hatEntry struct {
		stringID string
		id       BlockID
	}
	var hats []hatEntry
	for stringID, b := range s.target.Blocks {
		if b.TopLevel && b.Opcode == "control_start_as_clone" {
			hats = append(hats, hatEntry{stringID: stringID, id: BlockIDFromString(stringID)})
		}
	}
	sort.Slice(hats, func(i, j int) bool { return hats[i].id.Less(hats[j].id) })

	for i, h := range hats {
		hatID, blocks, err := BuildBlockTree(h.stringID, s.target.Blocks)
		if err != nil {
			return err
		}
		tid := ThreadID{Sprite: s.ID, Index: i}
		s.Threads = append(s.Threads, NewThread(tid, hatID, blocks))
	}
	return nil
}

// Clone forks this sprite into a new one: a deep-enough SpriteRuntime copy,
// a freshly minted SpriteID, and threads rebuilt from the same Target but
// limited to start-as-clone hats (spec §4.4).
func (s *Sprite) Clone(mintID func(baseName string) SpriteID) (*Sprite, error) {
	newID := mintID(s.Name)
	clone := &Sprite{
		ID:      newID,
		Name:    s.Name,
		Runtime: s.Runtime.Fork(newID),
		target:  s.target,
	}
	if err := clone.buildCloneThreads(); err != nil {
		return nil, err
	}
	return clone, nil
}

// mintCloneID produces a unique SpriteID for a new clone by appending
// "clone" + an increasing counter to baseName until taken, per spec §3.
func mintCloneID(baseName string, taken func(SpriteID) bool) SpriteID {
	counter := 0
	for {
		candidate := HashSpriteName(baseName + "clone" + strconv.Itoa(counter))
		if !taken(candidate) {
			return candidate
		}
		counter++
	}
}

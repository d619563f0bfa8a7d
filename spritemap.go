package scratch

import (
	"context"
	"sort"
	"sync"
)

// spriteMapBuckets is the fixed bucket count SpriteMap shards its sprites
// across, so a clone insert into one bucket never blocks a concurrent step
// reading a different bucket. Grounded on
// original_source/src/sprite_map.rs's [RwLock<HashMap<..>>; 64].
const spriteMapBuckets = 64

// DrawOrder is the authoritative back-to-front sequence of SpriteIDs,
// mutated by Insert, Remove and layer-change broadcasts.
type DrawOrder struct {
	mu  sync.Mutex
	ids []SpriteID
}

// NewDrawOrder builds a draw order from targets sorted by layer_order.
func NewDrawOrder(order []SpriteID) *DrawOrder {
	return &DrawOrder{ids: append([]SpriteID(nil), order...)}
}

// Iter returns a stable snapshot of the current back-to-front order.
func (d *DrawOrder) Iter() []SpriteID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SpriteID(nil), d.ids...)
}

// Insert adds a new sprite id to the front of the draw order (newly
// created sprites/clones draw on top, matching Scratch's editor).
func (d *DrawOrder) Insert(id SpriteID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
}

// Remove drops id from the draw order.
func (d *DrawOrder) Remove(id SpriteID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.ids {
		if existing == id {
			d.ids = append(d.ids[:i], d.ids[i+1:]...)
			return
		}
	}
}

// ChangeLayer applies a LayerChange: Front moves id to the back of the
// slice (front of the draw order, i.e. drawn last/on top); Back moves it
// to index 0 (drawn first); ChangeBy shifts it by a relative offset,
// clamped to the slice bounds.
func (d *DrawOrder) ChangeLayer(change LayerChange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := -1
	for i, existing := range d.ids {
		if existing == change.Sprite {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	d.ids = append(d.ids[:idx], d.ids[idx+1:]...)
	switch change.Kind {
	case LayerFront:
		d.ids = append(d.ids, change.Sprite)
	case LayerBack:
		d.ids = append([]SpriteID{change.Sprite}, d.ids...)
	case LayerChangeBy:
		newIdx := idx + int(change.ChangeBy)
		if newIdx < 0 {
			newIdx = 0
		}
		if newIdx > len(d.ids) {
			newIdx = len(d.ids)
		}
		d.ids = append(d.ids[:newIdx], append([]SpriteID{change.Sprite}, d.ids[newIdx:]...)...)
	}
}

// SpriteMap holds every sprite in a run across fixed buckets, allowing
// concurrent step of one sprite while a writer inserts a fresh clone into
// a different bucket without global locking. Grounded on
// original_source/src/sprite_map.rs.
type SpriteMap struct {
	buckets [spriteMapBuckets]struct {
		mu      sync.RWMutex
		sprites map[SpriteID]*Sprite
	}
	removed sync.Map // SpriteID -> struct{}; grows monotonically, shadows lookups
	stopped sync.Map // ThreadID -> struct{}

	DrawOrder *DrawOrder
}

// NewSpriteMap builds an empty map with the given initial draw order.
func NewSpriteMap(order []SpriteID) *SpriteMap {
	sm := &SpriteMap{DrawOrder: NewDrawOrder(order)}
	for i := range sm.buckets {
		sm.buckets[i].sprites = make(map[SpriteID]*Sprite)
	}
	return sm
}

func (sm *SpriteMap) bucket(id SpriteID) int {
	return int(id % spriteMapBuckets)
}

// Insert adds a sprite, placing it in the draw order if insertIntoDrawOrder.
func (sm *SpriteMap) Insert(s *Sprite, insertIntoDrawOrder bool) {
	b := &sm.buckets[sm.bucket(s.ID)]
	b.mu.Lock()
	b.sprites[s.ID] = s
	b.mu.Unlock()
	if insertIntoDrawOrder {
		sm.DrawOrder.Insert(s.ID)
	}
}

// Get retrieves a sprite by id, honoring the removed-sprites shadow.
func (sm *SpriteMap) Get(id SpriteID) (*Sprite, bool) {
	if _, removed := sm.removed.Load(id); removed {
		return nil, false
	}
	b := &sm.buckets[sm.bucket(id)]
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sprites[id]
	return s, ok
}

// Remove marks a sprite removed; it stays out of future lookups and draw
// passes even if another goroutine still holds a reference.
func (sm *SpriteMap) Remove(id SpriteID) {
	sm.removed.Store(id, struct{}{})
	sm.DrawOrder.Remove(id)
}

// IsRemoved reports whether id has been removed.
func (sm *SpriteMap) IsRemoved(id SpriteID) bool {
	_, removed := sm.removed.Load(id)
	return removed
}

// StopThread marks a thread stopped; the next scheduling encounter drops it
// (spec §5 cancellation).
func (sm *SpriteMap) StopThread(tid ThreadID) {
	sm.stopped.Store(tid, struct{}{})
}

// IsStopped reports whether tid has been marked stopped.
func (sm *SpriteMap) IsStopped(tid ThreadID) bool {
	_, stopped := sm.stopped.Load(tid)
	return stopped
}

// ClearStopped un-marks tid (defensive bookkeeping; nothing in the VM calls
// it, since Step already un-marks a stopped thread when it drops it).
func (sm *SpriteMap) ClearStopped(tid ThreadID) {
	sm.stopped.Delete(tid)
}

// MintCloneID produces a SpriteID for a new clone unused by any bucket.
func (sm *SpriteMap) MintCloneID(baseName string) SpriteID {
	return mintCloneID(baseName, func(id SpriteID) bool {
		_, ok := sm.Get(id)
		return ok
	})
}

// AllThreadIDs returns every (non-removed) sprite's thread ids, sorted by
// SpriteID then thread index for the VM step loop's stable iteration order
// (spec §5 "Ordering").
func (sm *SpriteMap) AllThreadIDs() []ThreadID {
	var ids []SpriteID
	for i := range sm.buckets {
		b := &sm.buckets[i]
		b.mu.RLock()
		for id := range b.sprites {
			if !sm.IsRemoved(id) {
				ids = append(ids, id)
			}
		}
		b.mu.RUnlock()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []ThreadID
	for _, id := range ids {
		s, ok := sm.Get(id)
		if !ok {
			continue
		}
		for i := range s.Threads {
			out = append(out, ThreadID{Sprite: id, Index: i})
		}
	}
	return out
}

// Step advances one thread by one scheduling tick, skipping removed
// sprites and stopped threads (spec §4.5 step 2).
func (sm *SpriteMap) Step(ctx context.Context, tid ThreadID) (StepOutcome, bool) {
	if sm.IsRemoved(tid.Sprite) {
		return StepDone, false
	}
	s, ok := sm.Get(tid.Sprite)
	if !ok || tid.Index >= len(s.Threads) {
		return StepDone, false
	}
	if sm.IsStopped(tid) {
		sm.stopped.Delete(tid)
		s.Threads[tid.Index].Terminate()
		return StepDone, true
	}
	if s.Threads[tid.Index].Done() {
		return StepDone, false
	}
	outcome := s.Threads[tid.Index].Step(ctx, s.Runtime)
	return outcome, true
}

// GetByName resolves a sprite by its authored name, used by touching/goto/
// clone-target blocks that address sprites by name rather than id.
func (sm *SpriteMap) GetByName(name string) (*Sprite, bool) {
	return sm.Get(HashSpriteName(name))
}

// SpriteRectangleOf returns the rectangle of the sprite with the given id, used by
// touching-family sensing blocks.
func (sm *SpriteMap) SpriteRectangleOf(id SpriteID) (SpriteRectangle, bool) {
	s, ok := sm.Get(id)
	if !ok {
		return SpriteRectangle{}, false
	}
	return s.Runtime.Rectangle, true
}

// Package board holds the authoritative local snapshot of content items,
// partitioned by pipeline stage.
//
// The board is the single shared mutable resource in the application. Only
// the mutation coordinator and the re-sync path mutate it; the UI and CLI
// read snapshots. It never talks to the network.
//
// # Thread Safety
//
// All methods are safe for concurrent use via an internal mutex. Local
// mutations happen on the UI event loop, but re-sync application arrives
// from background goroutines, so the lock is not optional.
package board

import (
	"sync"

	"github.com/mtorres/slate/internal/model"
)

// Board is an in-memory mapping from stage to an ordered list of items.
// Every item id appears in exactly one stage partition.
type Board struct {
	mu    sync.RWMutex
	lists map[model.Stage][]model.ContentItem
}

// New creates an empty board with all five stage partitions present.
func New() *Board {
	b := &Board{lists: make(map[model.Stage][]model.ContentItem, 5)}
	for _, s := range model.Stages() {
		b.lists[s] = nil
	}
	return b
}

// Snapshot returns a deep-copied view of all partitions. Callers may not
// mutate board state through it; every stage key is present even when empty.
func (b *Board) Snapshot() map[model.Stage][]model.ContentItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[model.Stage][]model.ContentItem, len(b.lists))
	for stage, items := range b.lists {
		copied := make([]model.ContentItem, len(items))
		for i, item := range items {
			copied[i] = item.Clone()
		}
		out[stage] = copied
	}
	return out
}

// Replace swaps the entire partition set atomically. Incoming items are
// re-partitioned by their own Stage field regardless of which list they
// arrive in, so a gateway that returns a flat or differently-grouped read
// still produces a consistent board. Used after a full remote re-sync.
func (b *Board) Replace(snapshot map[model.Stage][]model.ContentItem) {
	fresh := make(map[model.Stage][]model.ContentItem, 5)
	for _, s := range model.Stages() {
		fresh[s] = nil
	}
	seen := make(map[string]bool)
	for _, items := range snapshot {
		for _, item := range items {
			if item.ID == "" || seen[item.ID] || !item.Stage.Valid() {
				continue
			}
			seen[item.ID] = true
			fresh[item.Stage] = append(fresh[item.Stage], item.Clone())
		}
	}

	b.mu.Lock()
	b.lists = fresh
	b.mu.Unlock()
}

// MoveItem removes id from the source partition and appends it, with its
// stage field rewritten, to the target partition. Returns false without
// changing anything when id is not found in from - a benign race, the item
// may already have moved or been removed concurrently.
func (b *Board) MoveItem(id string, from, to model.Stage) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := indexOf(b.lists[from], id)
	if idx < 0 {
		return false
	}

	item := b.lists[from][idx]
	b.lists[from] = append(b.lists[from][:idx], b.lists[from][idx+1:]...)
	item.Stage = to
	item.Touch()
	b.lists[to] = append(b.lists[to], item)
	return true
}

// RemoveItem deletes the item from whichever partition holds it.
// Returns false when the id is not on the board.
func (b *Board) RemoveItem(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for stage, items := range b.lists {
		if idx := indexOf(items, id); idx >= 0 {
			b.lists[stage] = append(items[:idx], items[idx+1:]...)
			return true
		}
	}
	return false
}

// Insert adds a new item to the partition named by its Stage field.
// Any existing item with the same id is removed first, so ids stay unique.
func (b *Board) Insert(item model.ContentItem) {
	if !item.Stage.Valid() {
		item.Stage = model.StageIdea
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(item.ID)
	b.lists[item.Stage] = append(b.lists[item.Stage], item.Clone())
}

// Update replaces the stored copy of item in place, preserving its position
// within its partition when the stage is unchanged. A stage change falls
// back to remove-and-append.
func (b *Board) Update(item model.ContentItem) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idx := indexOf(b.lists[item.Stage], item.ID); idx >= 0 {
		b.lists[item.Stage][idx] = item.Clone()
		return true
	}
	if !b.removeLocked(item.ID) {
		return false
	}
	b.lists[item.Stage] = append(b.lists[item.Stage], item.Clone())
	return true
}

// FindStage returns the partition currently holding id.
func (b *Board) FindStage(id string) (model.Stage, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for stage, items := range b.lists {
		if indexOf(items, id) >= 0 {
			return stage, true
		}
	}
	return "", false
}

// Get returns a copy of the item with the given id.
func (b *Board) Get(id string) (model.ContentItem, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, items := range b.lists {
		if idx := indexOf(items, id); idx >= 0 {
			return items[idx].Clone(), true
		}
	}
	return model.ContentItem{}, false
}

// Len returns the total number of items across all partitions.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, items := range b.lists {
		n += len(items)
	}
	return n
}

func (b *Board) removeLocked(id string) bool {
	for stage, items := range b.lists {
		if idx := indexOf(items, id); idx >= 0 {
			b.lists[stage] = append(items[:idx], items[idx+1:]...)
			return true
		}
	}
	return false
}

func indexOf(items []model.ContentItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

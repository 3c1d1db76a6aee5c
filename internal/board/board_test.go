package board

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/mtorres/slate/internal/model"
)

func makeItem(title string, stage model.Stage) model.ContentItem {
	item := model.NewItem(title, "", model.PlatformOther, time.Time{}, nil)
	item.Stage = stage
	return item
}

// checkPartitionInvariant verifies every id appears in exactly one stage
// partition and that the union of partitions matches wantIDs.
func checkPartitionInvariant(t *testing.T, b *Board, wantIDs map[string]bool) {
	t.Helper()

	snap := b.Snapshot()
	seen := make(map[string]bool)
	for stage, items := range snap {
		for _, item := range items {
			if seen[item.ID] {
				t.Fatalf("item %s appears in more than one partition", item.ID)
			}
			seen[item.ID] = true
			if item.Stage != stage {
				t.Fatalf("item %s in partition %q has stage field %q", item.ID, stage, item.Stage)
			}
		}
	}
	if len(seen) != len(wantIDs) {
		t.Fatalf("board holds %d items, want %d", len(seen), len(wantIDs))
	}
	for id := range wantIDs {
		if !seen[id] {
			t.Fatalf("item %s lost from board", id)
		}
	}
}

func TestMoveItem(t *testing.T) {
	b := New()
	item := makeItem("a", model.StageIdea)
	b.Insert(item)

	if !b.MoveItem(item.ID, model.StageIdea, model.StageFilming) {
		t.Fatal("MoveItem reported item absent")
	}

	snap := b.Snapshot()
	if len(snap[model.StageIdea]) != 0 {
		t.Error("item still present in source partition")
	}
	if len(snap[model.StageFilming]) != 1 {
		t.Fatal("item missing from target partition")
	}
	moved := snap[model.StageFilming][0]
	if moved.Stage != model.StageFilming {
		t.Errorf("stage field = %q, want %q", moved.Stage, model.StageFilming)
	}
	if moved.UpdatedAt.Before(item.UpdatedAt) {
		t.Error("move did not touch UpdatedAt")
	}
}

func TestMoveItemAbsentIsNoop(t *testing.T) {
	b := New()
	item := makeItem("a", model.StageDrafting)
	b.Insert(item)
	before := b.Snapshot()

	// Wrong source stage: the claimed location is stale.
	if b.MoveItem(item.ID, model.StageIdea, model.StagePublished) {
		t.Fatal("MoveItem succeeded from a stage that does not hold the item")
	}
	if b.MoveItem("no-such-id", model.StageDrafting, model.StageIdea) {
		t.Fatal("MoveItem succeeded for unknown id")
	}

	after := b.Snapshot()
	for _, stage := range model.Stages() {
		if len(before[stage]) != len(after[stage]) {
			t.Fatalf("partition %q changed by failed move", stage)
		}
	}
}

func TestRemoveItem(t *testing.T) {
	b := New()
	item := makeItem("a", model.StageScheduled)
	b.Insert(item)

	if !b.RemoveItem(item.ID) {
		t.Fatal("RemoveItem reported item absent")
	}
	if b.RemoveItem(item.ID) {
		t.Fatal("second RemoveItem should be a no-op")
	}
	if b.Len() != 0 {
		t.Errorf("board length = %d after removal, want 0", b.Len())
	}
}

func TestReplaceRepartitionsByStageField(t *testing.T) {
	b := New()
	b.Insert(makeItem("old", model.StageIdea))

	// Gateway returns an item grouped under the wrong key; the stage field wins.
	fresh := makeItem("fresh", model.StageFilming)
	b.Replace(map[model.Stage][]model.ContentItem{
		model.StageIdea: {fresh},
	})

	snap := b.Snapshot()
	if len(snap[model.StageIdea]) != 0 {
		t.Error("replace kept stale item or misfiled fresh one")
	}
	if len(snap[model.StageFilming]) != 1 || snap[model.StageFilming][0].ID != fresh.ID {
		t.Error("fresh item not re-partitioned by its stage field")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	b := New()
	item := makeItem("a", model.StageIdea)
	item.Tags = []string{"x"}
	b.Insert(item)

	snap := b.Snapshot()
	snap[model.StageIdea][0].Title = "mutated"
	snap[model.StageIdea][0].Tags[0] = "mutated"

	got, _ := b.Get(item.ID)
	if got.Title == "mutated" || got.Tags[0] == "mutated" {
		t.Error("snapshot mutation leaked into board state")
	}
}

func TestUpdatePreservesPosition(t *testing.T) {
	b := New()
	first := makeItem("first", model.StageIdea)
	second := makeItem("second", model.StageIdea)
	b.Insert(first)
	b.Insert(second)

	edited := first.Clone()
	edited.Title = "first, edited"
	if !b.Update(edited) {
		t.Fatal("Update reported item absent")
	}

	snap := b.Snapshot()
	if snap[model.StageIdea][0].Title != "first, edited" {
		t.Error("edit did not preserve position in partition")
	}
}

// TestPartitionInvariantUnderRandomOps drives a random sequence of
// move/remove/insert/replace calls and checks the invariant after each.
func TestPartitionInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := New()
	live := make(map[string]bool)
	var ids []string

	stages := model.Stages()
	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); op {
		case 0: // insert
			item := makeItem(fmt.Sprintf("item-%d", i), stages[rng.Intn(len(stages))])
			b.Insert(item)
			live[item.ID] = true
			ids = append(ids, item.ID)
		case 1: // move (possibly with a stale source stage)
			if len(ids) == 0 {
				continue
			}
			id := ids[rng.Intn(len(ids))]
			from := stages[rng.Intn(len(stages))]
			to := stages[rng.Intn(len(stages))]
			b.MoveItem(id, from, to)
		case 2: // remove
			if len(ids) == 0 {
				continue
			}
			id := ids[rng.Intn(len(ids))]
			if b.RemoveItem(id) {
				delete(live, id)
			}
		case 3: // replace with current snapshot (self re-sync)
			b.Replace(b.Snapshot())
		}
		checkPartitionInvariant(t, b, live)
	}
}

package coord

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mtorres/slate/internal/board"
	"github.com/mtorres/slate/internal/model"
)

// mockGateway implements gateway.Gateway for testing. Remote state is a
// flat id->item map; per-operation errors are configurable.
type mockGateway struct {
	mu    sync.Mutex
	items map[string]model.ContentItem

	failUpdateStatus bool
	hangUpdateStatus bool
	failDelete       bool
	failCreate       bool
	failUpdate       bool
	failList         bool

	statusCalls atomic.Int32
	deleteCalls atomic.Int32
	listCalls   atomic.Int32

	lastStatus struct {
		id    string
		stage model.Stage
	}
}

func newMockGateway(items ...model.ContentItem) *mockGateway {
	m := &mockGateway{items: make(map[string]model.ContentItem)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *mockGateway) CreateItem(ctx context.Context, userID string, item model.ContentItem) error {
	if m.failCreate {
		return errors.New("create rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *mockGateway) UpdateItem(ctx context.Context, item model.ContentItem) error {
	if m.failUpdate {
		return errors.New("update rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *mockGateway) UpdateStatus(ctx context.Context, id string, stage model.Stage) error {
	m.statusCalls.Add(1)
	m.mu.Lock()
	m.lastStatus.id = id
	m.lastStatus.stage = stage
	m.mu.Unlock()

	if m.hangUpdateStatus {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.failUpdateStatus {
		return errors.New("status update rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return errors.New("not found")
	}
	item.Stage = stage
	m.items[id] = item
	return nil
}

func (m *mockGateway) DeleteItem(ctx context.Context, id string) error {
	m.deleteCalls.Add(1)
	if m.failDelete {
		return errors.New("delete rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *mockGateway) ListItemsForUser(ctx context.Context, userID string) (map[model.Stage][]model.ContentItem, error) {
	m.listCalls.Add(1)
	if m.failList {
		return nil, errors.New("list rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.Stage][]model.ContentItem, 5)
	for _, s := range model.Stages() {
		out[s] = nil
	}
	for _, item := range m.items {
		out[item.Stage] = append(out[item.Stage], item)
	}
	return out, nil
}

func (m *mockGateway) Close() error { return nil }

func makeItem(title string, stage model.Stage) model.ContentItem {
	item := model.NewItem(title, "", model.PlatformShortVideo, time.Time{}, nil)
	item.Stage = stage
	return item
}

// setup builds a board+coordinator pair seeded with the given items on both
// the local board and the mock remote.
func setup(items ...model.ContentItem) (*board.Board, *mockGateway, *Coordinator) {
	b := board.New()
	for _, item := range items {
		b.Insert(item)
	}
	g := newMockGateway(items...)
	c := New(b, g, "user-1")
	return b, g, c
}

func TestOptimisticVisibility(t *testing.T) {
	item := makeItem("x", model.StageIdea)
	b, _, c := setup(item)

	c.RequestTransition(item.ID, model.StageIdea, model.StageDrafting)

	// Immediately after return, before the background call is awaited, the
	// local board must already reflect the target stage.
	snap := b.Snapshot()
	if len(snap[model.StageIdea]) != 0 {
		t.Error("item still visible in source stage after optimistic move")
	}
	if len(snap[model.StageDrafting]) != 1 {
		t.Error("item not visible in target stage after optimistic move")
	}
	c.Wait()
}

func TestAbsentMoveIsIdempotent(t *testing.T) {
	item := makeItem("x", model.StageDrafting)
	b, g, c := setup(item)
	before := b.Snapshot()

	// Claimed source stage is stale.
	c.RequestTransition(item.ID, model.StageIdea, model.StagePublished)
	c.Wait()

	after := b.Snapshot()
	for _, stage := range model.Stages() {
		if len(before[stage]) != len(after[stage]) {
			t.Fatalf("partition %q changed by stale transition", stage)
		}
	}
	if n := g.statusCalls.Load(); n != 0 {
		t.Errorf("stale transition issued %d gateway calls, want 0", n)
	}
}

func TestRollbackOnFailure(t *testing.T) {
	item := makeItem("y", model.StageDrafting)
	b, g, c := setup(item)
	g.failUpdateStatus = true

	c.RequestTransition(item.ID, model.StageDrafting, model.StagePublished)
	c.Wait()

	// The remote still holds the item in drafting; after the failure-driven
	// re-sync the local board must match the remote exactly.
	want, err := g.ListItemsForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	got := b.Snapshot()
	for _, stage := range model.Stages() {
		if len(got[stage]) != len(want[stage]) {
			t.Errorf("stage %q: local %d items, remote %d", stage, len(got[stage]), len(want[stage]))
		}
	}
	if len(got[model.StageDrafting]) != 1 || got[model.StageDrafting][0].ID != item.ID {
		t.Error("item did not snap back to its server-side stage")
	}
	if g.listCalls.Load() == 0 {
		t.Error("failure did not trigger a full re-fetch")
	}
}

func TestRollbackAfterPersistTimeout(t *testing.T) {
	item := makeItem("y", model.StageDrafting)
	b, g, c := setup(item)
	g.hangUpdateStatus = true
	c.timeout = 50 * time.Millisecond

	// The write hangs until its deadline expires. The failure-driven
	// re-fetch must still run, on a context of its own, and snap the item
	// back to its server-side stage.
	c.RequestTransition(item.ID, model.StageDrafting, model.StagePublished)
	c.Wait()

	if g.listCalls.Load() == 0 {
		t.Fatal("timed-out persist did not trigger a full re-fetch")
	}
	if stage, ok := b.FindStage(item.ID); !ok || stage != model.StageDrafting {
		t.Errorf("item in stage %q after timed-out persist, want snap-back to drafting", stage)
	}
}

func TestDirectNonAdjacentTransition(t *testing.T) {
	item := makeItem("x", model.StageIdea)
	b, g, c := setup(item)

	// Direct drop: idea -> filming skips drafting and is legal.
	c.RequestTransition(item.ID, model.StageIdea, model.StageFilming)
	c.Wait()

	if stage, _ := b.FindStage(item.ID); stage != model.StageFilming {
		t.Errorf("item in stage %q, want filming", stage)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastStatus.id != item.ID || g.lastStatus.stage != model.StageFilming {
		t.Errorf("gateway call carried (%s, %q), want (%s, filming)",
			g.lastStatus.id, g.lastStatus.stage, item.ID)
	}
}

func TestKeyboardOneStepBounds(t *testing.T) {
	published := makeItem("done", model.StagePublished)
	idea := makeItem("seed", model.StageIdea)
	b, g, c := setup(published, idea)

	c.AdvanceItem(published.ID)
	c.RetreatItem(idea.ID)
	c.Wait()

	if stage, _ := b.FindStage(published.ID); stage != model.StagePublished {
		t.Error("advance at terminal stage moved the item")
	}
	if stage, _ := b.FindStage(idea.ID); stage != model.StageIdea {
		t.Error("retreat at first stage moved the item")
	}
	if n := g.statusCalls.Load(); n != 0 {
		t.Errorf("boundary keyboard commands issued %d gateway calls, want 0", n)
	}
}

func TestKeyboardAdvanceIsOneStep(t *testing.T) {
	item := makeItem("x", model.StageDrafting)
	b, _, c := setup(item)

	c.AdvanceItem(item.ID)
	c.Wait()

	if stage, _ := b.FindStage(item.ID); stage != model.StageFilming {
		t.Errorf("advance moved item to %q, want the adjacent stage filming", stage)
	}
}

func TestDeletionOptimisticAndPersisted(t *testing.T) {
	item := makeItem("x", model.StageScheduled)
	b, g, c := setup(item)

	c.RequestDeletion(item.ID, model.StageScheduled)
	if b.Len() != 0 {
		t.Error("item still on board after optimistic deletion")
	}
	c.Wait()

	if g.deleteCalls.Load() != 1 {
		t.Error("deletion did not reach the gateway")
	}
	g.mu.Lock()
	_, stillThere := g.items[item.ID]
	g.mu.Unlock()
	if stillThere {
		t.Error("remote copy survived deletion")
	}
}

func TestDeletionFailureResyncs(t *testing.T) {
	item := makeItem("x", model.StageScheduled)
	b, g, c := setup(item)
	g.failDelete = true

	c.RequestDeletion(item.ID, model.StageScheduled)
	c.Wait()

	// The failed delete re-syncs; the item reappears from the remote.
	if stage, ok := b.FindStage(item.ID); !ok || stage != model.StageScheduled {
		t.Error("item did not reappear in its remote stage after failed delete")
	}
}

func TestCreateValidationSurfacesSynchronously(t *testing.T) {
	b, g, c := setup()

	bad := model.NewItem("   ", "", model.PlatformPhoto, time.Time{}, nil)
	err := c.RequestCreate(bad)
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if !model.IsValidation(err) {
		t.Errorf("got %T, want ValidationError", err)
	}
	c.Wait()
	if b.Len() != 0 {
		t.Error("invalid item landed on the board")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.items) != 0 {
		t.Error("invalid item reached the gateway")
	}
}

func TestCreatePersists(t *testing.T) {
	b, g, c := setup()

	item := model.NewItem("New reel", "", model.PlatformShortVideo, time.Time{}, nil)
	if err := c.RequestCreate(item); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Get(item.ID); !ok {
		t.Error("created item not visible locally before persistence")
	}
	c.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.items[item.ID]; !ok {
		t.Error("created item missing from remote")
	}
}

func TestResyncFailureLeavesBoardUntouched(t *testing.T) {
	item := makeItem("x", model.StageIdea)
	b, g, c := setup(item)
	g.failUpdateStatus = true
	g.failList = true

	c.RequestTransition(item.ID, model.StageIdea, model.StageDrafting)
	c.Wait()

	// Both the write and the re-read failed: the optimistic move stays in
	// place until a later re-sync succeeds.
	if stage, _ := b.FindStage(item.ID); stage != model.StageDrafting {
		t.Error("board lost the optimistic move despite re-sync failure")
	}
}

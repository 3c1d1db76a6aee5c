// Package coord provides the optimistic mutation coordinator for Slate.
//
// Every pipeline mutation follows the same protocol: validate against the
// local board, apply locally, return to the caller immediately, then persist
// in a background goroutine. Persistence failures are not rolled back
// per-operation - the coordinator discards local pipeline state and replaces
// it with a fresh full read from the gateway. Coarse, but safe against
// concurrently queued mutations, and stage transitions are frequent,
// low-stakes operations.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtorres/slate/internal/board"
	"github.com/mtorres/slate/internal/gateway"
	"github.com/mtorres/slate/internal/logging"
	"github.com/mtorres/slate/internal/model"
	"github.com/mtorres/slate/internal/pipeline"
	"github.com/mtorres/slate/internal/ui"
)

// persistTimeout bounds each background gateway call.
const persistTimeout = 30 * time.Second

// Coordinator applies mutations to the board optimistically and reconciles
// with the persistence gateway in the background.
type Coordinator struct {
	board   *board.Board
	gateway gateway.Gateway
	machine *pipeline.Machine
	userID  string
	timeout time.Duration

	mu      sync.Mutex
	program *tea.Program // nil until Attach, nil-safe in send
	wg      sync.WaitGroup
}

// New creates a Coordinator. userID scopes every gateway read.
func New(b *board.Board, g gateway.Gateway, userID string) *Coordinator {
	return &Coordinator{
		board:   b,
		gateway: g,
		machine: pipeline.New(),
		userID:  userID,
		timeout: persistTimeout,
	}
}

// Attach wires the running Bubble Tea program so background outcomes can be
// pushed into the UI loop. Safe to skip in tests and CLI one-shots.
func (c *Coordinator) Attach(p *tea.Program) {
	c.mu.Lock()
	c.program = p
	c.mu.Unlock()
}

// Wait blocks until all in-flight background persistence calls finish.
// Call on shutdown, and in tests to await the failure path.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// RequestTransition moves an item between stages. The local board reflects
// the target stage before this returns; persistence happens in the
// background. A stale reference (item not found in its claimed source
// stage) is silently absorbed: no state change, no gateway call.
func (c *Coordinator) RequestTransition(id string, from, to model.Stage) {
	if err := c.machine.Validate(c.board.Snapshot(), id, from); err != nil {
		logging.Debug("Transition dropped", "id", id, "from", from, "to", to, "error", err)
		return
	}
	if !c.board.MoveItem(id, from, to) {
		// Lost a race between Validate and MoveItem - same benign outcome.
		logging.Debug("Transition dropped at apply", "id", id, "from", from, "to", to)
		return
	}

	c.persist(func(ctx context.Context) error {
		return c.gateway.UpdateStatus(ctx, id, to)
	}, "update status", id, nil)
}

// RequestDeletion removes an item from the board and schedules the remote
// delete. Same stale-reference and re-sync rules as RequestTransition.
func (c *Coordinator) RequestDeletion(id string, from model.Stage) {
	if err := c.machine.Validate(c.board.Snapshot(), id, from); err != nil {
		logging.Debug("Deletion dropped", "id", id, "from", from, "error", err)
		return
	}
	if !c.board.RemoveItem(id) {
		logging.Debug("Deletion dropped at apply", "id", id, "from", from)
		return
	}

	c.persist(func(ctx context.Context) error {
		return c.gateway.DeleteItem(ctx, id)
	}, "delete", id, nil)
}

// AdvanceItem moves an item one step forward in the pipeline. This is the
// keyboard path: unlike a direct drop it is restricted to adjacent stages,
// and it is a no-op when the item already sits in the last stage.
func (c *Coordinator) AdvanceItem(id string) {
	from, ok := c.board.FindStage(id)
	if !ok {
		logging.Debug("Advance dropped, item unknown", "id", id)
		return
	}
	to, ok := c.machine.StepForward(from)
	if !ok {
		return // already published
	}
	c.RequestTransition(id, from, to)
}

// RetreatItem moves an item one step backward, mirroring AdvanceItem.
func (c *Coordinator) RetreatItem(id string) {
	from, ok := c.board.FindStage(id)
	if !ok {
		logging.Debug("Retreat dropped, item unknown", "id", id)
		return
	}
	to, ok := c.machine.StepBackward(from)
	if !ok {
		return // already an idea
	}
	c.RequestTransition(id, from, to)
}

// RequestCreate validates and inserts a new item. Structural validation
// errors are returned synchronously so the submitting form can display
// them; they never trigger a gateway call.
func (c *Coordinator) RequestCreate(item model.ContentItem) error {
	if err := model.ValidateNew(item); err != nil {
		return err
	}
	c.board.Insert(item)

	c.persist(func(ctx context.Context) error {
		return c.gateway.CreateItem(ctx, c.userID, item)
	}, "create", item.ID, ui.ItemSaved{ID: item.ID})
	return nil
}

// RequestEdit validates and applies an edit to an existing item.
func (c *Coordinator) RequestEdit(item model.ContentItem) error {
	if err := model.ValidateEdit(item); err != nil {
		return err
	}
	item.Touch()
	if !c.board.Update(item) {
		// Item vanished under the form (concurrent delete or re-sync).
		logging.Debug("Edit dropped, item unknown", "id", item.ID)
		return nil
	}

	c.persist(func(ctx context.Context) error {
		return c.gateway.UpdateItem(ctx, item)
	}, "update", item.ID, ui.ItemSaved{ID: item.ID})
	return nil
}

// Resync replaces the board with a fresh full read from the gateway.
// Used at startup and for manual refresh; the failure path calls it too.
func (c *Coordinator) Resync(ctx context.Context) error {
	snapshot, err := c.gateway.ListItemsForUser(ctx, c.userID)
	if err != nil {
		return err
	}
	c.board.Replace(snapshot)
	return nil
}

// persist runs a gateway call in the background. On success the optional
// confirmation message is pushed to the UI. On failure the optimistic local
// change is discarded via a full re-sync; the user-visible effect is the
// item snapping back to its last known-good remote position. No blocking
// error is raised.
func (c *Coordinator) persist(call func(ctx context.Context) error, op, id string, confirm tea.Msg) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		err := call(ctx)
		if err == nil {
			if confirm != nil {
				c.send(confirm)
			}
			return
		}
		logging.Error("Persistence failed, re-syncing", "op", op, "id", id, "error", err)

		// The write may have failed precisely because its context expired;
		// the re-sync needs a fresh deadline of its own.
		rctx, rcancel := context.WithTimeout(context.Background(), c.timeout)
		defer rcancel()
		if err := c.Resync(rctx); err != nil {
			logging.Error("Re-sync failed", "op", op, "error", err)
			c.send(ui.BoardResynced{Err: err})
			return
		}
		c.send(ui.BoardResynced{Snapshot: c.board.Snapshot()})
	}()
}

func (c *Coordinator) send(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

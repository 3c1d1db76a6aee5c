// Package gateway provides remote persistence for content items.
//
// The gateway owns the remote copy of the data, which is the eventual
// source of truth when local and remote disagree. All operations take a
// context and may fail; callers in the optimistic path never inspect the
// failure reason beyond "failed, trigger re-sync".
package gateway

import (
	"context"
	"errors"

	"github.com/mtorres/slate/internal/model"
)

// ErrNotFound is returned when an operation names an id the remote store
// does not hold.
var ErrNotFound = errors.New("item not found")

// Gateway is the narrow contract the pipeline controller depends on.
// Implementations: SQLite (local file) and Redis (shared).
type Gateway interface {
	// CreateItem persists a new item for the given user.
	CreateItem(ctx context.Context, userID string, item model.ContentItem) error

	// UpdateItem rewrites the stored copy of item (title, description,
	// platform, due date, tags). The stage field is persisted as given.
	UpdateItem(ctx context.Context, item model.ContentItem) error

	// UpdateStatus moves an item to a new stage remotely.
	UpdateStatus(ctx context.Context, id string, stage model.Stage) error

	// DeleteItem removes an item permanently. Deleted ids are never reused.
	DeleteItem(ctx context.Context, id string) error

	// ListItemsForUser returns the full remote state for a user, grouped
	// by stage. This is the read used by the re-sync path.
	ListItemsForUser(ctx context.Context, userID string) (map[model.Stage][]model.ContentItem, error)

	// Close releases the underlying connection.
	Close() error
}

// groupByStage partitions a flat item list by each item's stage field.
// Items with an invalid stage are dropped rather than misfiled.
func groupByStage(items []model.ContentItem) map[model.Stage][]model.ContentItem {
	out := make(map[model.Stage][]model.ContentItem, 5)
	for _, s := range model.Stages() {
		out[s] = nil
	}
	for _, item := range items {
		if !item.Stage.Valid() {
			continue
		}
		out[item.Stage] = append(out[item.Stage], item)
	}
	return out
}

// Package ui provides the Bubble Tea board for Slate.
package ui

import (
	"github.com/mtorres/slate/internal/metrics"
	"github.com/mtorres/slate/internal/model"
)

// BoardLoaded is sent when the initial snapshot has been read from the
// persistence gateway.
type BoardLoaded struct {
	Snapshot map[model.Stage][]model.ContentItem
	Err      error
}

// BoardResynced is sent after the coordinator finished a full re-sync,
// usually because a background persistence call failed. Snapshot is the
// fresh board state; on Err the local board was left untouched.
type BoardResynced struct {
	Snapshot map[model.Stage][]model.ContentItem
	Err      error
}

// ItemSaved is sent when a create or edit has been confirmed by the
// persistence gateway.
type ItemSaved struct {
	ID string
}

// MetricsLoaded is sent when the engagement snapshot for all configured
// platforms has been fetched.
type MetricsLoaded struct {
	Stats []metrics.ProfileStats
	Err   error
}

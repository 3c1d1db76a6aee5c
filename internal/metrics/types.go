// Package metrics fetches cross-platform engagement numbers for the
// analytics view. It is entirely outside the pipeline controller - nothing
// here touches the board or the coordinator.
package metrics

import (
	"time"

	"github.com/mtorres/slate/internal/model"
)

// PostKind discriminates the platform-specific post payloads. The kind is
// resolved once, at the fetch boundary; consumers switch on Kind instead of
// probing field presence.
type PostKind string

const (
	KindShortVideo PostKind = "short_video"
	KindPhoto      PostKind = "photo"
)

// Post is a tagged variant: exactly one of ShortVideo or Photo is non-nil,
// matching Kind.
type Post struct {
	ID         string          `json:"id"`
	Kind       PostKind        `json:"kind"`
	Caption    string          `json:"caption"`
	Posted     time.Time       `json:"posted"`
	Likes      int             `json:"likes"`
	Comments   int             `json:"comments"`
	ShortVideo *ShortVideoPost `json:"short_video,omitempty"`
	Photo      *PhotoPost      `json:"photo,omitempty"`
}

// ShortVideoPost carries the fields only video posts have.
type ShortVideoPost struct {
	Plays    int           `json:"plays"`
	Shares   int           `json:"shares"`
	Duration time.Duration `json:"duration"`
}

// PhotoPost carries the fields only photo posts have.
type PhotoPost struct {
	Saves      int `json:"saves"`
	ImageCount int `json:"image_count"`
}

// ProfileStats is one platform's engagement snapshot for a profile.
type ProfileStats struct {
	Platform   model.Platform `json:"platform"`
	Handle     string         `json:"handle"`
	Followers  int            `json:"followers"`
	Following  int            `json:"following"`
	TotalLikes int            `json:"total_likes"`
	Posts      []Post         `json:"posts"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

// Endpoint configures one platform's stats API.
type Endpoint struct {
	Platform model.Platform
	Handle   string
	URL      string
}

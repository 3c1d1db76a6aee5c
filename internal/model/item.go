// Package model provides the core data types for Slate.
//
// ContentItem is the unit of plannable content. Items are owned by the
// board (the in-memory snapshot) and by the persistence gateway (the
// remote copy); everything else passes items around by value.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform identifies which kind of outlet a piece of content targets.
// Resolved once at the data-fetching boundary - rendering and pipeline
// logic never inspect platform-specific field shapes.
type Platform string

const (
	PlatformShortVideo   Platform = "shortvideo"
	PlatformPhoto        Platform = "photo"
	PlatformLongVideo    Platform = "longvideo"
	PlatformProfessional Platform = "professional"
	PlatformMicro        Platform = "micro"
	PlatformOther        Platform = "other"
)

// Platforms returns the closed set of supported platforms.
func Platforms() []Platform {
	return []Platform{
		PlatformShortVideo,
		PlatformPhoto,
		PlatformLongVideo,
		PlatformProfessional,
		PlatformMicro,
		PlatformOther,
	}
}

// ParsePlatform converts a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// ContentItem is a unit of plannable content moving through the pipeline.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Platform    Platform  `json:"platform"`
	Stage       Stage     `json:"stage"`
	DueDate     time.Time `json:"due_date"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItem creates a fresh item in the idea stage with a new id and
// both timestamps set to now.
func NewItem(title, description string, platform Platform, due time.Time, tags []string) ContentItem {
	now := time.Now().UTC()
	return ContentItem{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Platform:    platform,
		Stage:       StageIdea,
		DueDate:     due,
		Tags:        normalizeTags(tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch rewrites UpdatedAt. Called on every mutation.
func (c *ContentItem) Touch() {
	c.UpdatedAt = time.Now().UTC()
	if c.UpdatedAt.Before(c.CreatedAt) {
		// Clock skew guard: UpdatedAt must never precede CreatedAt.
		c.UpdatedAt = c.CreatedAt
	}
}

// Clone returns a deep copy of the item.
func (c ContentItem) Clone() ContentItem {
	out := c
	if c.Tags != nil {
		out.Tags = make([]string, len(c.Tags))
		copy(out.Tags, c.Tags)
	}
	return out
}

// normalizeTags trims, lowercases, dedups and sorts tags. Tags are an
// order-insensitive set; sorting keeps comparisons deterministic.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ValidationError describes a structurally invalid create or edit request.
// These are surfaced synchronously to the submitting form or CLI and never
// reach the mutation coordinator.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateNew checks a candidate item before creation.
func ValidateNew(c ContentItem) error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !c.Platform.validPlatform() {
		return &ValidationError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", c.Platform)}
	}
	return nil
}

// ValidateEdit checks an edited item before it is applied.
func ValidateEdit(c ContentItem) error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !c.Platform.validPlatform() {
		return &ValidationError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", c.Platform)}
	}
	if !c.Stage.Valid() {
		return &ValidationError{Field: "stage", Reason: fmt.Sprintf("unknown stage %q", c.Stage)}
	}
	return nil
}

func (p Platform) validPlatform() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

package model

import (
	"testing"
	"time"
)

func TestStageOrder(t *testing.T) {
	tests := []struct {
		stage    Stage
		next     Stage
		hasNext  bool
		prev     Stage
		hasPrev  bool
	}{
		{StageIdea, StageDrafting, true, "", false},
		{StageDrafting, StageFilming, true, StageIdea, true},
		{StageFilming, StageScheduled, true, StageDrafting, true},
		{StageScheduled, StagePublished, true, StageFilming, true},
		{StagePublished, "", false, StageScheduled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			next, ok := tt.stage.Next()
			if ok != tt.hasNext || next != tt.next {
				t.Errorf("Next() = (%q, %v), want (%q, %v)", next, ok, tt.next, tt.hasNext)
			}
			prev, ok := tt.stage.Prev()
			if ok != tt.hasPrev || prev != tt.prev {
				t.Errorf("Prev() = (%q, %v), want (%q, %v)", prev, ok, tt.prev, tt.hasPrev)
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages() {
		got, err := ParseStage(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStage(%q) = (%q, %v), want (%q, nil)", s, got, err, s)
		}
	}
	if _, err := ParseStage("archived"); err == nil {
		t.Error("ParseStage(\"archived\") should fail")
	}
}

func TestNewItemDefaults(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	item := NewItem("Spring haul", "try-on", PlatformShortVideo, due, []string{"Fashion", "fashion", " spring "})

	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if item.Stage != StageIdea {
		t.Errorf("new item stage = %q, want %q", item.Stage, StageIdea)
	}
	if item.UpdatedAt.Before(item.CreatedAt) {
		t.Error("UpdatedAt must not precede CreatedAt")
	}
	// Tags are a set: dedup + normalize.
	if len(item.Tags) != 2 {
		t.Errorf("tags = %v, want 2 normalized tags", item.Tags)
	}
}

func TestTouchMonotonic(t *testing.T) {
	item := NewItem("x", "", PlatformOther, time.Time{}, nil)
	before := item.UpdatedAt
	time.Sleep(time.Millisecond)
	item.Touch()
	if item.UpdatedAt.Before(before) {
		t.Error("Touch moved UpdatedAt backwards")
	}
	if item.UpdatedAt.Before(item.CreatedAt) {
		t.Error("UpdatedAt must not precede CreatedAt")
	}
}

func TestValidateNew(t *testing.T) {
	tests := []struct {
		name    string
		item    ContentItem
		wantErr bool
	}{
		{"ok", NewItem("title", "", PlatformPhoto, time.Time{}, nil), false},
		{"empty title", NewItem("   ", "", PlatformPhoto, time.Time{}, nil), true},
		{"bad platform", ContentItem{Title: "t", Platform: "tiktok"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNew(tt.item)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNew() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	item := NewItem("t", "", PlatformMicro, time.Time{}, []string{"a", "b"})
	clone := item.Clone()
	clone.Tags[0] = "mutated"
	if item.Tags[0] == "mutated" {
		t.Error("Clone shares tag storage with original")
	}
}

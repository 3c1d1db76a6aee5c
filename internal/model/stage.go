package model

import "fmt"

// Stage is one discrete step in the content production pipeline.
type Stage string

const (
	StageIdea      Stage = "idea"
	StageDrafting  Stage = "drafting"
	StageFilming   Stage = "filming"
	StageScheduled Stage = "scheduled"
	StagePublished Stage = "published"
)

// stageOrder defines the forward direction of the pipeline.
var stageOrder = []Stage{
	StageIdea,
	StageDrafting,
	StageFilming,
	StageScheduled,
	StagePublished,
}

// Stages returns all pipeline stages in forward order.
// The returned slice is a copy and safe to modify.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage converts a string into a Stage.
func ParseStage(s string) (Stage, error) {
	for _, st := range stageOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage: %q", s)
}

// Valid reports whether the stage is one of the five pipeline stages.
func (s Stage) Valid() bool {
	for _, st := range stageOrder {
		if s == st {
			return true
		}
	}
	return false
}

// Next returns the following stage, or false if s is the last stage.
func (s Stage) Next() (Stage, bool) {
	for i, st := range stageOrder {
		if s == st && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return "", false
}

// Prev returns the preceding stage, or false if s is the first stage.
func (s Stage) Prev() (Stage, bool) {
	for i, st := range stageOrder {
		if s == st && i > 0 {
			return stageOrder[i-1], true
		}
	}
	return "", false
}

// Index returns the position of the stage in the pipeline, or -1 if invalid.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if s == st {
			return i
		}
	}
	return -1
}

// Label returns a human-readable column header for the stage.
func (s Stage) Label() string {
	switch s {
	case StageIdea:
		return "Ideas"
	case StageDrafting:
		return "Drafting"
	case StageFilming:
		return "Filming"
	case StageScheduled:
		return "Scheduled"
	case StagePublished:
		return "Published"
	}
	return string(s)
}

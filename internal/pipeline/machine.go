// Package pipeline defines the legal stages and transitions of the content
// production pipeline.
//
// Transitions come in three flavors:
//   - one-step forward/backward (keyboard advance/retreat), bounded at the
//     first and last stage
//   - direct stage-to-stage jumps (the drag gesture), where any target is
//     legal, including non-adjacent stages
//   - deletion into the virtual terminal "deleted" state, which has no
//     board partition and no outbound transitions
//
// The only rejection is a stale reference: the item cannot be located in
// its claimed source stage. Target stages are never rejected - jumping an
// item straight from idea to published is legitimate.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/mtorres/slate/internal/model"
)

// ErrStaleReference means a transition named an item/location that no
// longer matches local state, due to a prior concurrent mutation. Callers
// absorb it silently: no state change, no persistence call.
var ErrStaleReference = errors.New("stale item reference")

// Machine validates requested transitions against a board snapshot.
type Machine struct{}

// New returns a pipeline machine.
func New() *Machine {
	return &Machine{}
}

// Validate checks that id is currently present in its claimed source stage.
// Returns ErrStaleReference (wrapped with detail) when it is not.
func (m *Machine) Validate(snapshot map[model.Stage][]model.ContentItem, id string, from model.Stage) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q is not a pipeline stage", ErrStaleReference, from)
	}
	for _, item := range snapshot[from] {
		if item.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: item %s not in stage %q", ErrStaleReference, id, from)
}

// StepForward returns the one-step advance target for stage, or false when
// the stage is terminal. Keyboard-driven transitions use this; direct jumps
// do not.
func (m *Machine) StepForward(stage model.Stage) (model.Stage, bool) {
	return stage.Next()
}

// StepBackward returns the one-step retreat target for stage, or false when
// the stage is the first one.
func (m *Machine) StepBackward(stage model.Stage) (model.Stage, bool) {
	return stage.Prev()
}

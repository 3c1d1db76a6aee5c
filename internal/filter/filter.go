// Package filter provides pure projection functions for board snapshots.
// All functions are simple: items in, items out. No side effects, and no
// bearing on the pipeline mechanics - the board is never mutated here.
package filter

import (
	"sort"
	"strings"

	"github.com/mtorres/slate/internal/model"
)

// SortMode selects the ordering applied to each stage partition.
type SortMode int

const (
	// SortDueDate orders by due date ascending; zero due dates sink to
	// the end so dated work surfaces first.
	SortDueDate SortMode = iota
	// SortTitle orders lexicographically by title, case-insensitive.
	SortTitle
)

// String returns the status-bar label for the mode.
func (m SortMode) String() string {
	switch m {
	case SortDueDate:
		return "due"
	case SortTitle:
		return "title"
	}
	return "?"
}

// Search keeps items whose title or description contains query,
// case-insensitive. An empty query keeps everything.
func Search(items []model.ContentItem, query string) []model.ContentItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	result := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			result = append(result, item)
		}
	}
	return result
}

// Sort orders items by the given mode. The sort is stable so items that
// compare equal keep their board order.
func Sort(items []model.ContentItem, mode SortMode) []model.ContentItem {
	result := make([]model.ContentItem, len(items))
	copy(result, items)

	switch mode {
	case SortTitle:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i].DueDate, result[j].DueDate
			if a.IsZero() != b.IsZero() {
				return !a.IsZero()
			}
			return a.Before(b)
		})
	}
	return result
}

// View is a filtered, sorted projection of a board snapshot plus the
// per-stage counts of the filtered partitions. Counts shown to the user
// are counts of the filtered lists, not the raw ones.
type View struct {
	Lists  map[model.Stage][]model.ContentItem
	Counts map[model.Stage]int
}

// Project applies Search then Sort to every stage partition.
func Project(snapshot map[model.Stage][]model.ContentItem, query string, mode SortMode) View {
	v := View{
		Lists:  make(map[model.Stage][]model.ContentItem, 5),
		Counts: make(map[model.Stage]int, 5),
	}
	for _, stage := range model.Stages() {
		projected := Sort(Search(snapshot[stage], query), mode)
		v.Lists[stage] = projected
		v.Counts[stage] = len(projected)
	}
	return v
}

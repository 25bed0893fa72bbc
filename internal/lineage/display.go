package lineage

import (
	"fmt"
	"sort"
)

// SortOrder is the direction PR numbers are listed in within one state group
type SortOrder string

const (
	// SortAscending lists lower PR numbers first
	SortAscending SortOrder = "ascending"
	// SortDescending lists the newest PRs first
	SortDescending SortOrder = "descending"
)

// ParseSortOrder converts a string to a SortOrder, defaulting to descending
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "descending":
		return SortDescending, nil
	case "ascending":
		return SortAscending, nil
	default:
		return "", fmt.Errorf("unknown sorting method %q (expected ascending or descending)", s)
	}
}

// stateOrder ranks states for display; higher comes first
var stateOrder = map[State]int{
	StateOpen:    4,
	StateDraft:   3,
	StateMerged:  2,
	StateClosed:  1,
	StateUnknown: 0,
}

// SortForDisplay returns a copy of prs grouped by state priority, then ordered by number
func SortForDisplay(prs []PrInfo, order SortOrder) []PrInfo {
	sorted := make([]PrInfo, len(prs))
	copy(sorted, prs)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if stateOrder[a.State] != stateOrder[b.State] {
			return stateOrder[a.State] > stateOrder[b.State]
		}
		if order == SortAscending {
			return a.Number < b.Number
		}
		return a.Number > b.Number
	})

	return sorted
}

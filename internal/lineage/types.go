package lineage

import (
	"sort"

	"github.com/alan/chainlink/internal/github"
)

// State is the normalized state of a pull request
type State string

const (
	// StateOpen indicates an open, ready for review pull request
	StateOpen State = "open"
	// StateDraft indicates an unmerged draft pull request
	StateDraft State = "draft"
	// StateMerged indicates the pull request has been merged
	StateMerged State = "merged"
	// StateClosed indicates the pull request was closed without merging
	StateClosed State = "closed"
	// StateUnknown indicates the API reported a state we do not recognize
	StateUnknown State = "unknown"
)

// DeriveState maps a raw record onto a State. Merged wins over draft, which wins over
// the raw open/closed state.
func DeriveState(pr github.PullRequest) State {
	if pr.MergedAt != nil {
		return StateMerged
	}
	if pr.Draft {
		return StateDraft
	}
	switch pr.State {
	case "open":
		return StateOpen
	case "closed":
		return StateClosed
	default:
		return StateUnknown
	}
}

// PrInfo is the normalized, persisted view of a pull request
type PrInfo struct {
	Title  string `json:"title"`
	Href   string `json:"href"`
	Number int    `json:"number"`
	State  State  `json:"state"`
}

// NewPrInfo normalizes a raw record
func NewPrInfo(pr github.PullRequest) PrInfo {
	return PrInfo{
		Title:  pr.Title,
		Href:   pr.URL,
		Number: pr.Number,
		State:  DeriveState(pr),
	}
}

// Results holds the lineage of one pull request
type Results struct {
	AncestorPrs   []PrInfo `json:"ancestorPrs"`
	DescendantPrs []PrInfo `json:"descendantPrs"`
	SiblingPrs    []PrInfo `json:"siblingPrs"`
}

// Equal reports whether all three sequences match element-wise. A nil and an empty
// sequence compare equal.
func (r Results) Equal(other Results) bool {
	return equalPrInfos(r.AncestorPrs, other.AncestorPrs) &&
		equalPrInfos(r.DescendantPrs, other.DescendantPrs) &&
		equalPrInfos(r.SiblingPrs, other.SiblingPrs)
}

// IsDifferent reports whether a and b differ in any of their three sequences
func IsDifferent(a, b Results) bool {
	return !a.Equal(b)
}

func equalPrInfos(a, b []PrInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// toPrInfos normalizes records and sorts them by ascending number
func toPrInfos(prs []github.PullRequest) []PrInfo {
	infos := make([]PrInfo, 0, len(prs))
	for _, pr := range prs {
		infos = append(infos, NewPrInfo(pr))
	}
	sortByNumber(infos)
	return infos
}

func sortByNumber(infos []PrInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Number < infos[j].Number
	})
}

package github

import "time"

// PageSize is the number of pull requests requested per list page
const PageSize = 100

// PullRequest is the raw pull request record returned by the API
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	State     string // "open" or "closed"
	Draft     bool
	MergedAt  *time.Time
	HeadLabel string // owner:branch
	HeadRef   string // branch
	BaseLabel string
	BaseRef   string
}

// FilterField selects which side of a pull request a list query filters on
type FilterField string

const (
	// FilterHead matches pull requests whose head label equals the value (owner:branch)
	FilterHead FilterField = "head"
	// FilterBase matches pull requests whose base branch name equals the value
	FilterBase FilterField = "base"
)

// Filter restricts a list query to one head label or one base branch
type Filter struct {
	Field FilterField
	Value string
}

// HeadFilter matches pull requests whose head is the given owner:branch label
func HeadFilter(label string) Filter {
	return Filter{Field: FilterHead, Value: label}
}

// BaseFilter matches pull requests targeting the given bare branch name
func BaseFilter(ref string) Filter {
	return Filter{Field: FilterBase, Value: ref}
}

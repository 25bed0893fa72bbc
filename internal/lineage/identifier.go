// Package lineage resolves the ancestors, descendants and siblings of a pull request.
package lineage

import (
	"fmt"
	"regexp"
	"strconv"
)

// Identifier names one pull request
type Identifier struct {
	Owner  string
	Repo   string
	Number int
}

// Key returns owner/repo/number, used as the cache key
func (id Identifier) Key() string {
	return fmt.Sprintf("%s/%s/%d", id.Owner, id.Repo, id.Number)
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s/%s#%d", id.Owner, id.Repo, id.Number)
}

// Validate checks that all fields are populated
func (id Identifier) Validate() error {
	if id.Owner == "" || id.Repo == "" {
		return fmt.Errorf("owner and repository are required")
	}
	if id.Number < 1 {
		return fmt.Errorf("invalid PR number %d", id.Number)
	}
	return nil
}

var (
	pullURLRegex  = regexp.MustCompile(`github\.com/([\w.-]+)/([\w.-]+)/pull/(\d+)`)
	shortRefRegex = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
)

// ParseIdentifier accepts a pull request URL (https://github.com/owner/repo/pull/42)
// or the short form owner/repo#42
func ParseIdentifier(s string) (Identifier, error) {
	matches := pullURLRegex.FindStringSubmatch(s)
	if matches == nil {
		matches = shortRefRegex.FindStringSubmatch(s)
	}
	if matches == nil {
		return Identifier{}, fmt.Errorf("unable to parse pull request reference: %s", s)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil {
		return Identifier{}, fmt.Errorf("invalid PR number: %w", err)
	}

	id := Identifier{Owner: matches[1], Repo: matches[2], Number: number}
	if err := id.Validate(); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

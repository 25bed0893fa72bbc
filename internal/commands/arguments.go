package commands

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/lineage"
)

var bareNumberRegex = regexp.MustCompile(`^#?(\d+)$`)

// ParseIdentifierArg parses the single pull request argument. Besides a URL or
// owner/repo#N, a bare number (42 or #42) refers to the origin remote of the
// current git repository.
func ParseIdentifierArg(args []string) (lineage.Identifier, error) {
	if len(args) == 0 {
		return lineage.Identifier{}, fmt.Errorf("pull request is required (URL or owner/repo#number)")
	}
	if len(args) > 1 {
		return lineage.Identifier{}, fmt.Errorf("expected one pull request, got %d arguments", len(args))
	}

	matches := bareNumberRegex.FindStringSubmatch(args[0])
	if matches == nil {
		return lineage.ParseIdentifier(args[0])
	}

	number, err := strconv.Atoi(matches[1])
	if err != nil {
		return lineage.Identifier{}, fmt.Errorf("invalid PR number: %w", err)
	}

	owner, repo, err := detectRepository()
	if err != nil {
		return lineage.Identifier{}, fmt.Errorf("cannot resolve #%d without a repository (use owner/repo#%d): %w", number, number, err)
	}

	id := lineage.Identifier{Owner: owner, Repo: repo, Number: number}
	if err := id.Validate(); err != nil {
		return lineage.Identifier{}, err
	}
	return id, nil
}

// ResolveFlags holds the per-invocation overrides shared by resolve and tree.
// Empty strings mean "use the config file value".
type ResolveFlags struct {
	Strategy string
	Sort     string
}

// DisplaySettings are the effective settings after merging flags over config
type DisplaySettings struct {
	Options lineage.Options
	Order   lineage.SortOrder
}

// BuildDisplaySettings merges command flags over the config file values
func BuildDisplaySettings(config *cmd.Config, flags ResolveFlags, includeSiblings bool) (DisplaySettings, error) {
	strategyName := config.Strategy
	if flags.Strategy != "" {
		strategyName = flags.Strategy
	}
	strategy, err := lineage.ParseStrategy(strategyName)
	if err != nil {
		return DisplaySettings{}, err
	}

	sortName := config.SortingMethod
	if flags.Sort != "" {
		sortName = flags.Sort
	}
	order, err := lineage.ParseSortOrder(sortName)
	if err != nil {
		return DisplaySettings{}, err
	}

	return DisplaySettings{
		Options: lineage.Options{IncludeSiblings: includeSiblings, Strategy: strategy},
		Order:   order,
	}, nil
}

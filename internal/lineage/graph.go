package lineage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alan/chainlink/internal/github"
)

// ErrInvariantViolation marks internal bookkeeping failures. It is not recoverable by
// retrying with the same input.
var ErrInvariantViolation = errors.New("lineage invariant violated")

type numberSet map[int]struct{}

type labelSet map[string]struct{}

// branchGraph indexes open pull requests by their head and base labels
type branchGraph struct {
	byNumber map[int]github.PullRequest
	// head label -> PRs whose head is that label
	headToPRs map[string]numberSet
	// base label -> head labels of PRs targeting it
	baseToHeads map[string]labelSet
	// base label -> PRs targeting it
	baseToPRs map[string]numberSet
}

func newBranchGraph(prs []github.PullRequest) *branchGraph {
	g := &branchGraph{
		byNumber:    make(map[int]github.PullRequest, len(prs)),
		headToPRs:   make(map[string]numberSet),
		baseToHeads: make(map[string]labelSet),
		baseToPRs:   make(map[string]numberSet),
	}

	for _, pr := range prs {
		g.byNumber[pr.Number] = pr
		addNumber(g.headToPRs, pr.HeadLabel, pr.Number)
		addNumber(g.baseToPRs, pr.BaseLabel, pr.Number)
		if g.baseToHeads[pr.BaseLabel] == nil {
			g.baseToHeads[pr.BaseLabel] = make(labelSet)
		}
		g.baseToHeads[pr.BaseLabel][pr.HeadLabel] = struct{}{}
	}

	return g
}

func addNumber(m map[string]numberSet, key string, number int) {
	if m[key] == nil {
		m[key] = make(numberSet)
	}
	m[key][number] = struct{}{}
}

// ancestors returns PRs whose head is the target's base
func (g *branchGraph) ancestors(target github.PullRequest) numberSet {
	found := make(numberSet)
	for n := range g.headToPRs[target.BaseLabel] {
		found[n] = struct{}{}
	}
	return found
}

// descendants returns PRs on every branch that targets the target's head
func (g *branchGraph) descendants(target github.PullRequest) numberSet {
	found := make(numberSet)
	for head := range g.baseToHeads[target.HeadLabel] {
		for n := range g.headToPRs[head] {
			found[n] = struct{}{}
		}
	}
	return found
}

// siblings returns PRs sharing the target's base, excluding the target
func (g *branchGraph) siblings(target github.PullRequest) numberSet {
	found := make(numberSet)
	for n := range g.baseToPRs[target.BaseLabel] {
		if n != target.Number {
			found[n] = struct{}{}
		}
	}
	return found
}

func (g *branchGraph) records(set numberSet) []github.PullRequest {
	prs := make([]github.PullRequest, 0, len(set))
	for n := range set {
		prs = append(prs, g.byNumber[n])
	}
	return prs
}

// resolveGraph lists every open PR once and derives the relationships in memory
func (r *Resolver) resolveGraph(ctx context.Context, id Identifier, opts Options) (Results, error) {
	prs, err := r.fetcher.ListOpenPullRequests(ctx, id.Owner, id.Repo)
	if err != nil {
		return Results{}, fmt.Errorf("failed to list pull requests for %s/%s: %w", id.Owner, id.Repo, err)
	}

	slog.Debug("Building branch graph", "owner", id.Owner, "repo", id.Repo, "open_prs", len(prs))
	graph := newBranchGraph(prs)

	target, ok := graph.byNumber[id.Number]
	if !ok {
		return Results{}, fmt.Errorf("%w: PR %s not found among %d open pull requests", ErrInvariantViolation, id, len(prs))
	}

	results := Results{
		AncestorPrs:   toPrInfos(graph.records(graph.ancestors(target))),
		DescendantPrs: toPrInfos(graph.records(graph.descendants(target))),
		SiblingPrs:    []PrInfo{},
	}
	if opts.IncludeSiblings {
		results.SiblingPrs = toPrInfos(graph.records(graph.siblings(target)))
	}

	return results, nil
}

package lineage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alan/chainlink/internal/github"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the subset of the GitHub client the resolver needs
type Fetcher interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	ListPullRequestsPage(ctx context.Context, owner, repo string, filter github.Filter, page int) ([]github.PullRequest, bool, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]github.PullRequest, error)
}

// Strategy selects how relationships are discovered
type Strategy string

const (
	// StrategyDirect issues one filtered list query per relationship
	StrategyDirect Strategy = "direct"
	// StrategyGraph lists every open pull request once and indexes it in memory
	StrategyGraph Strategy = "graph"
)

// ParseStrategy converts a string to a Strategy, defaulting to direct for empty input
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "direct":
		return StrategyDirect, nil
	case "graph":
		return StrategyGraph, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (expected direct or graph)", s)
	}
}

// Options controls a single resolution
type Options struct {
	IncludeSiblings bool
	Strategy        Strategy
}

// Resolver computes pull request lineage
type Resolver struct {
	fetcher Fetcher
}

// NewResolver creates a resolver backed by fetcher
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve returns the ancestors, descendants and (optionally) siblings of id.
// Each sequence is sorted by ascending PR number.
func (r *Resolver) Resolve(ctx context.Context, id Identifier, opts Options) (Results, error) {
	if err := id.Validate(); err != nil {
		return Results{}, err
	}

	if opts.Strategy == StrategyGraph {
		return r.resolveGraph(ctx, id, opts)
	}
	return r.resolveDirect(ctx, id, opts)
}

func (r *Resolver) resolveDirect(ctx context.Context, id Identifier, opts Options) (Results, error) {
	target, err := r.fetcher.GetPullRequest(ctx, id.Owner, id.Repo, id.Number)
	if err != nil {
		return Results{}, fmt.Errorf("failed to fetch PR %s: %w", id, err)
	}

	slog.Debug("Resolving lineage", "pr", id.String(), "base_label", target.BaseLabel, "head_ref", target.HeadRef, "siblings", opts.IncludeSiblings)

	var ancestors, descendants, siblings []github.PullRequest

	g, gctx := errgroup.WithContext(ctx)

	// ancestors: their head is our base
	g.Go(func() error {
		prs, err := r.listAll(gctx, id, github.HeadFilter(target.BaseLabel))
		if err != nil {
			return fmt.Errorf("failed to fetch ancestors of %s: %w", id, err)
		}
		ancestors = prs
		return nil
	})

	// descendants: their base is our head
	g.Go(func() error {
		prs, err := r.listAll(gctx, id, github.BaseFilter(target.HeadRef))
		if err != nil {
			return fmt.Errorf("failed to fetch descendants of %s: %w", id, err)
		}
		descendants = prs
		return nil
	})

	if opts.IncludeSiblings {
		g.Go(func() error {
			prs, err := r.listAll(gctx, id, github.BaseFilter(target.BaseRef))
			if err != nil {
				return fmt.Errorf("failed to fetch siblings of %s: %w", id, err)
			}
			siblings = excludeNumber(prs, id.Number)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	results := Results{
		AncestorPrs:   toPrInfos(ancestors),
		DescendantPrs: toPrInfos(descendants),
		SiblingPrs:    toPrInfos(siblings),
	}

	slog.Debug("Resolved lineage", "pr", id.String(), "ancestors", len(results.AncestorPrs),
		"descendants", len(results.DescendantPrs), "siblings", len(results.SiblingPrs))

	return results, nil
}

// listAll drives the filtered list query until a short page comes back
func (r *Resolver) listAll(ctx context.Context, id Identifier, filter github.Filter) ([]github.PullRequest, error) {
	return github.Paginate(func(page int) ([]github.PullRequest, bool, error) {
		return r.fetcher.ListPullRequestsPage(ctx, id.Owner, id.Repo, filter, page)
	})
}

func excludeNumber(prs []github.PullRequest, number int) []github.PullRequest {
	filtered := make([]github.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.Number != number {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

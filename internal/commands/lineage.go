package commands

import (
	"context"
	"log/slog"

	"github.com/alan/chainlink/internal/lineage"
)

// LineageResolver resolves the lineage of one pull request
type LineageResolver interface {
	Resolve(ctx context.Context, id lineage.Identifier, opts lineage.Options) (lineage.Results, error)
}

// LineageCache is the subset of the cache the commands use
type LineageCache interface {
	Load(ctx context.Context, id lineage.Identifier) (lineage.Results, bool, error)
	Store(ctx context.Context, id lineage.Identifier, results lineage.Results) error
}

// LoadCached returns the cached lineage for id. Read failures are logged and
// reported as a miss so a broken cache never blocks a fresh resolution.
func LoadCached(ctx context.Context, store LineageCache, id lineage.Identifier) (lineage.Results, bool) {
	if store == nil {
		return lineage.Results{}, false
	}
	results, ok, err := store.Load(ctx, id)
	if err != nil {
		slog.Warn("Failed to read cached lineage", "pr", id.String(), "error", err)
		return lineage.Results{}, false
	}
	return results, ok
}

// ResolveAndStore resolves id and writes the result to store. A store failure
// is logged and the fresh results are still returned.
func ResolveAndStore(ctx context.Context, resolver LineageResolver, store LineageCache, id lineage.Identifier, opts lineage.Options) (lineage.Results, error) {
	results, err := resolver.Resolve(ctx, id, opts)
	if err != nil {
		return lineage.Results{}, err
	}

	if store != nil {
		if err := store.Store(ctx, id, results); err != nil {
			slog.Warn("Failed to cache lineage", "pr", id.String(), "error", err)
		}
	}

	return results, nil
}

// FreshLookup resolves every node against GitHub, refreshing the cache as it goes
func FreshLookup(resolver LineageResolver, store LineageCache, opts lineage.Options) lineage.LookupFunc {
	return func(ctx context.Context, id lineage.Identifier) (lineage.Results, error) {
		return ResolveAndStore(ctx, resolver, store, id, opts)
	}
}

// CachedLookup serves nodes from the cache and resolves only the misses
func CachedLookup(resolver LineageResolver, store LineageCache, opts lineage.Options) lineage.LookupFunc {
	return func(ctx context.Context, id lineage.Identifier) (lineage.Results, error) {
		if results, ok := LoadCached(ctx, store, id); ok {
			return results, nil
		}
		return ResolveAndStore(ctx, resolver, store, id, opts)
	}
}

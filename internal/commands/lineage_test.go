package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alan/chainlink/internal/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mu      sync.Mutex
	results map[int]lineage.Results
	err     error
	calls   []int
}

func (f *fakeResolver) Resolve(_ context.Context, id lineage.Identifier, _ lineage.Options) (lineage.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id.Number)
	if f.err != nil {
		return lineage.Results{}, f.err
	}
	return f.results[id.Number], nil
}

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]lineage.Results
	loadErr  error
	storeErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]lineage.Results{}}
}

func (m *memoryCache) Load(_ context.Context, id lineage.Identifier) (lineage.Results, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return lineage.Results{}, false, m.loadErr
	}
	r, ok := m.entries[id.Key()]
	return r, ok, nil
}

func (m *memoryCache) Store(_ context.Context, id lineage.Identifier, results lineage.Results) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.entries[id.Key()] = results
	return nil
}

func TestLoadCached(t *testing.T) {
	ctx := context.Background()

	_, ok := LoadCached(ctx, nil, widgets42)
	assert.False(t, ok)

	store := newMemoryCache()
	_, ok = LoadCached(ctx, store, widgets42)
	assert.False(t, ok)

	store.entries[widgets42.Key()] = sampleLineage()
	got, ok := LoadCached(ctx, store, widgets42)
	assert.True(t, ok)
	assert.True(t, got.Equal(sampleLineage()))

	store.loadErr = errors.New("disk on fire")
	_, ok = LoadCached(ctx, store, widgets42)
	assert.False(t, ok)
}

func TestResolveAndStore(t *testing.T) {
	ctx := context.Background()
	resolver := &fakeResolver{results: map[int]lineage.Results{42: sampleLineage()}}
	store := newMemoryCache()

	got, err := ResolveAndStore(ctx, resolver, store, widgets42, lineage.Options{})
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleLineage()))
	assert.True(t, store.entries[widgets42.Key()].Equal(sampleLineage()))
}

func TestResolveAndStore_StoreFailureStillReturnsResults(t *testing.T) {
	resolver := &fakeResolver{results: map[int]lineage.Results{42: sampleLineage()}}
	store := newMemoryCache()
	store.storeErr = errors.New("read-only")

	got, err := ResolveAndStore(context.Background(), resolver, store, widgets42, lineage.Options{})
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleLineage()))
}

func TestResolveAndStore_ResolveFailure(t *testing.T) {
	boom := errors.New("boom")
	resolver := &fakeResolver{err: boom}
	store := newMemoryCache()

	_, err := ResolveAndStore(context.Background(), resolver, store, widgets42, lineage.Options{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.entries)
}

func TestCachedLookup(t *testing.T) {
	ctx := context.Background()
	resolver := &fakeResolver{results: map[int]lineage.Results{55: {AncestorPrs: []lineage.PrInfo{{Number: 42}}}}}
	store := newMemoryCache()
	store.entries[widgets42.Key()] = sampleLineage()

	lookup := CachedLookup(resolver, store, lineage.Options{})

	got, err := lookup(ctx, widgets42)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleLineage()))
	assert.Empty(t, resolver.calls)

	child := lineage.Identifier{Owner: "acme", Repo: "widgets", Number: 55}
	_, err = lookup(ctx, child)
	require.NoError(t, err)
	assert.Equal(t, []int{55}, resolver.calls)
	_, cached := store.entries[child.Key()]
	assert.True(t, cached)
}

func TestFreshLookup(t *testing.T) {
	resolver := &fakeResolver{results: map[int]lineage.Results{42: sampleLineage()}}
	store := newMemoryCache()
	store.entries[widgets42.Key()] = lineage.Results{}

	got, err := FreshLookup(resolver, store, lineage.Options{})(context.Background(), widgets42)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleLineage()))
	assert.Equal(t, []int{42}, resolver.calls)
	assert.True(t, store.entries[widgets42.Key()].Equal(sampleLineage()))
}

package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alan/chainlink/internal/lineage"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = lineage.Identifier{Owner: "acme", Repo: "widgets", Number: 42}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResults() lineage.Results {
	return lineage.Results{
		AncestorPrs: []lineage.PrInfo{
			{Title: "Base work", Href: "https://github.com/acme/widgets/pull/40", Number: 40, State: lineage.StateOpen},
		},
		DescendantPrs: []lineage.PrInfo{
			{Title: "Follow up", Href: "https://github.com/acme/widgets/pull/55", Number: 55, State: lineage.StateDraft},
		},
		SiblingPrs: []lineage.PrInfo{},
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Load(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_StoreThenLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	results := sampleResults()

	require.NoError(t, store.Store(ctx, target, results))

	got, ok, err := store.Load(ctx, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(results))
	assert.False(t, store.IsDifferent(got, results))
}

func TestStore_StoreIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	results := sampleResults()

	require.NoError(t, store.Store(ctx, target, results))
	require.NoError(t, store.Store(ctx, target, results))

	got, ok, err := store.Load(ctx, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(results))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []lineage.Identifier{target}, ids)
}

func TestStore_Overwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, target, sampleResults()))

	updated := sampleResults()
	updated.DescendantPrs[0].State = lineage.StateMerged
	require.NoError(t, store.Store(ctx, target, updated))

	got, _, err := store.Load(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, lineage.StateMerged, got.DescendantPrs[0].State)
	assert.True(t, store.IsDifferent(sampleResults(), got))
}

func TestStore_LoadCorruptValue(t *testing.T) {
	store := newTestStore(t)
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(target.Key()), []byte("{not json"))
	})
	require.NoError(t, err)

	_, ok, err := store.Load(context.Background(), target)
	require.Error(t, err)
	assert.False(t, ok)

	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "decode", storageErr.Op)
	assert.Equal(t, "acme/widgets/42", storageErr.Key)
}

func TestStore_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Store(ctx, target, sampleResults()), context.Canceled)
	_, _, err := store.Load(ctx, target)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ListSkipsFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	other := lineage.Identifier{Owner: "acme", Repo: "gadgets", Number: 7}
	second := lineage.Identifier{Owner: "acme", Repo: "widgets", Number: 9}
	require.NoError(t, store.Store(ctx, target, sampleResults()))
	require.NoError(t, store.Store(ctx, other, sampleResults()))
	require.NoError(t, store.Store(ctx, second, sampleResults()))
	require.NoError(t, store.setMigrated())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []lineage.Identifier{other, second, target}, ids)
}

func TestOpen_Persistent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()

	store, err := Open(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx, target, sampleResults()))
	require.NoError(t, store.Close())

	reopened, err := Open(Config{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(ctx, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(sampleResults()))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

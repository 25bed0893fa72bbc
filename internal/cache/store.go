package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/alan/chainlink/internal/lineage"
	"github.com/dgraph-io/badger/v4"
)

// migratedFlagKey records that the legacy file has been fully migrated.
// It cannot collide with an owner/repo/number key.
const migratedFlagKey = "chainlink-migrated-to-badger"

var resultKeyRegex = regexp.MustCompile(`^([^/]+)/([^/]+)/(\d+)$`)

// Store is the persistent lineage cache. Safe for concurrent use.
type Store struct {
	db *badger.DB

	migrateMu sync.Mutex
}

// Close releases the underlying database
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	return nil
}

// Load returns the cached lineage for id. ok is false when nothing is cached.
func (s *Store) Load(ctx context.Context, id lineage.Identifier) (lineage.Results, bool, error) {
	if err := ctx.Err(); err != nil {
		return lineage.Results{}, false, err
	}

	key := id.Key()
	slog.Debug("Loading cached lineage", "key", key)

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return lineage.Results{}, false, nil
	}
	if err != nil {
		return lineage.Results{}, false, &StorageError{Op: "load", Key: key, Err: err}
	}

	var results lineage.Results
	if err := json.Unmarshal(data, &results); err != nil {
		return lineage.Results{}, false, &StorageError{Op: "decode", Key: key, Err: err}
	}

	return results, true, nil
}

// Store overwrites the cached lineage for id
func (s *Store) Store(ctx context.Context, id lineage.Identifier, results lineage.Results) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := id.Key()
	data, err := json.Marshal(results)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}

	slog.Debug("Storing lineage", "key", key, "bytes", len(data))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return &StorageError{Op: "store", Key: key, Err: err}
	}

	return nil
}

// IsDifferent reports whether freshly resolved lineage differs from a cached snapshot
func (s *Store) IsDifferent(cached, fresh lineage.Results) bool {
	return lineage.IsDifferent(cached, fresh)
}

// List returns the identifiers of every cached entry, sorted by key
func (s *Store) List(ctx context.Context) ([]lineage.Identifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []lineage.Identifier
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id, ok := parseResultKey(string(it.Item().Key()))
			if ok {
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Owner != ids[j].Owner {
			return ids[i].Owner < ids[j].Owner
		}
		if ids[i].Repo != ids[j].Repo {
			return ids[i].Repo < ids[j].Repo
		}
		return ids[i].Number < ids[j].Number
	})

	return ids, nil
}

func parseResultKey(key string) (lineage.Identifier, bool) {
	matches := resultKeyRegex.FindStringSubmatch(key)
	if matches == nil {
		return lineage.Identifier{}, false
	}
	number, err := strconv.Atoi(matches[3])
	if err != nil {
		return lineage.Identifier{}, false
	}
	return lineage.Identifier{Owner: matches[1], Repo: matches[2], Number: number}, true
}

// migrated reports whether the legacy migration flag is set
func (s *Store) migrated() (bool, error) {
	var set bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(migratedFlagKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			set = string(val) == "true"
			return nil
		})
	})
	if err != nil {
		return false, &StorageError{Op: "load", Key: migratedFlagKey, Err: err}
	}
	return set, nil
}

func (s *Store) setMigrated() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(migratedFlagKey), []byte("true"))
	})
	if err != nil {
		return &StorageError{Op: "store", Key: migratedFlagKey, Err: err}
	}
	return nil
}

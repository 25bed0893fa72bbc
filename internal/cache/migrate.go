package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/alan/chainlink/internal/lineage"
)

var legacyKeyRegex = regexp.MustCompile(`^chainlink-([^/]+)/([^/]+)/(\d+)$`)

// MigrationReport summarizes one MigrateLegacyIfNeeded call
type MigrationReport struct {
	// AlreadyMigrated is true when the flag was set and nothing was scanned
	AlreadyMigrated bool
	Migrated        []lineage.Identifier
	// Failed holds legacy keys that stayed in the legacy store
	Failed  []string
	Ignored int
}

// Complete reports whether the scan finished without leaving any entry behind
func (r MigrationReport) Complete() bool {
	return r.AlreadyMigrated || len(r.Failed) == 0
}

// ParseLegacyKey extracts the identifier from a "chainlink-owner/repo/number" key.
// Keys naming an invalid identifier (PR number 0) are rejected.
func ParseLegacyKey(key string) (lineage.Identifier, bool) {
	matches := legacyKeyRegex.FindStringSubmatch(key)
	if matches == nil {
		return lineage.Identifier{}, false
	}
	number, err := strconv.Atoi(matches[3])
	if err != nil {
		return lineage.Identifier{}, false
	}
	id := lineage.Identifier{Owner: matches[1], Repo: matches[2], Number: number}
	if err := id.Validate(); err != nil {
		return lineage.Identifier{}, false
	}
	return id, true
}

// LegacyKey formats the legacy key for id
func LegacyKey(id lineage.Identifier) string {
	return "chainlink-" + id.Key()
}

// MigrateLegacyIfNeeded moves every matching entry from src into the cache and
// removes it from src. Entries that fail to parse or store are logged and left
// in place. The migrated flag is written only after a scan with no failures, so
// a later call retries whatever was left.
func (s *Store) MigrateLegacyIfNeeded(ctx context.Context, src LegacySource) (MigrationReport, error) {
	s.migrateMu.Lock()
	defer s.migrateMu.Unlock()

	var report MigrationReport

	done, err := s.migrated()
	if err != nil {
		return report, err
	}
	if done {
		slog.Debug("Legacy cache already migrated")
		report.AlreadyMigrated = true
		return report, nil
	}

	keys, err := src.Keys()
	if err != nil {
		return report, fmt.Errorf("failed to list legacy keys: %w", err)
	}

	slog.Info("Migrating legacy cache", "keys", len(keys))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id, ok := ParseLegacyKey(key)
		if !ok {
			report.Ignored++
			continue
		}

		if err := s.migrateEntry(ctx, src, key, id); err != nil {
			slog.Warn("Skipping legacy cache entry", "key", key, "error", err)
			report.Failed = append(report.Failed, key)
			continue
		}
		report.Migrated = append(report.Migrated, id)
	}

	if len(report.Failed) > 0 {
		slog.Warn("Legacy cache migration incomplete", "migrated", len(report.Migrated), "failed", len(report.Failed))
		return report, nil
	}

	if err := s.setMigrated(); err != nil {
		return report, err
	}

	slog.Info("Legacy cache migration complete", "migrated", len(report.Migrated), "ignored", report.Ignored)
	return report, nil
}

func (s *Store) migrateEntry(ctx context.Context, src LegacySource, key string, id lineage.Identifier) error {
	raw, ok, err := src.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var results lineage.Results
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLegacyEntry, err)
	}

	if err := s.Store(ctx, id, results); err != nil {
		return err
	}

	return src.Delete(key)
}

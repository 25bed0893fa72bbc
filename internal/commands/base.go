package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/cache"
	"github.com/alan/chainlink/internal/config"
	"github.com/alan/chainlink/internal/github"
	"github.com/alan/chainlink/internal/lineage"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile   *string
	LoadConfig   func(string) (*cmd.Config, error)
	GitHubClient *github.Client
	Resolver     *lineage.Resolver
	Cache        *cache.Store
	Context      context.Context
	Config       *cmd.Config
}

// Init loads configuration and builds the GitHub client and resolver
func (bc *BaseCommand) Init(ctx context.Context) error {
	if err := bc.LoadConfiguration(ctx); err != nil {
		return err
	}

	if err := config.LoadEnv(".env"); err != nil {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	token, err := getGitHubToken()
	if err != nil {
		return err
	}

	client, err := newGitHubClient(bc.Context, token)
	if err != nil {
		return err
	}
	bc.GitHubClient = client
	bc.Resolver = lineage.NewResolver(client)

	return nil
}

// LoadConfiguration loads the config file without touching GitHub
func (bc *BaseCommand) LoadConfiguration(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	bc.Context = ctx

	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	bc.Config = config

	return nil
}

// OpenCache opens the lineage cache when caching is enabled. It is a no-op otherwise.
func (bc *BaseCommand) OpenCache() error {
	if !bc.Config.EnableCache {
		slog.Debug("Cache disabled")
		return nil
	}

	store, err := cache.Open(cache.Config{Path: bc.Config.CacheDir, Logger: slog.Default().With("component", "badger")})
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	bc.Cache = store

	return nil
}

// MigrateLegacy moves entries from the legacy store at path into the open cache.
// An empty path falls back to the configured legacy store.
func (bc *BaseCommand) MigrateLegacy(path string) (cache.MigrationReport, error) {
	if bc.Cache == nil {
		return cache.MigrationReport{}, fmt.Errorf("cache is not open")
	}
	if path == "" {
		path = bc.Config.LegacyStore
	}
	if path == "" {
		return cache.MigrationReport{}, fmt.Errorf("no legacy store configured")
	}

	legacy, err := cache.OpenLegacyFile(path)
	if err != nil {
		return cache.MigrationReport{}, err
	}

	return bc.Cache.MigrateLegacyIfNeeded(bc.Context, legacy)
}

// PrepareCache opens the cache and runs the one-time legacy migration when a
// legacy store is configured. Migration failures are logged, not returned.
func (bc *BaseCommand) PrepareCache() error {
	if err := bc.OpenCache(); err != nil {
		return err
	}
	if bc.Cache == nil || bc.Config.LegacyStore == "" {
		return nil
	}

	if _, err := bc.MigrateLegacy(""); err != nil {
		slog.Warn("Legacy cache migration failed", "error", err)
	}
	return nil
}

// Close releases the cache if it was opened
func (bc *BaseCommand) Close() {
	if bc.Cache == nil {
		return
	}
	if err := bc.Cache.Close(); err != nil {
		slog.Warn("Failed to close cache", "error", err)
	}
	bc.Cache = nil
}

// LineageCache returns the open cache as a LineageCache, or nil when caching is off
func (bc *BaseCommand) LineageCache() LineageCache {
	if bc.Cache == nil {
		return nil
	}
	return bc.Cache
}

// getGitHubToken retrieves and validates the GitHub token
func getGitHubToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}
	return token, nil
}

// newGitHubClient targets GITHUB_API_URL when set (GitHub Enterprise), api.github.com otherwise
func newGitHubClient(ctx context.Context, token string) (*github.Client, error) {
	if baseURL := os.Getenv("GITHUB_API_URL"); baseURL != "" {
		slog.Debug("Using custom GitHub API endpoint", "url", baseURL)
		return github.NewClientWithBaseURL(ctx, token, baseURL)
	}
	return github.NewClient(ctx, token), nil
}

package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/cache"
	"github.com/alan/chainlink/internal/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseCommand_Init(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		apiURL     string
		loadConfig func(string) (*cmd.Config, error)
		wantErr    string
	}{
		{
			name:  "successful init",
			token: "test-token",
			loadConfig: func(string) (*cmd.Config, error) {
				return cmd.DefaultConfig(), nil
			},
		},
		{
			name:   "custom api url",
			token:  "test-token",
			apiURL: "https://ghe.example.com/api/v3",
			loadConfig: func(string) (*cmd.Config, error) {
				return cmd.DefaultConfig(), nil
			},
		},
		{
			name:  "config load error",
			token: "test-token",
			loadConfig: func(string) (*cmd.Config, error) {
				return nil, errors.New("failed to load config")
			},
			wantErr: "failed to load config",
		},
		{
			name: "missing github token",
			loadConfig: func(string) (*cmd.Config, error) {
				return cmd.DefaultConfig(), nil
			},
			wantErr: "GITHUB_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("GITHUB_TOKEN", tt.token)
			t.Setenv("GITHUB_API_URL", tt.apiURL)

			configFile := "chainlink.yaml"
			bc := &BaseCommand{ConfigFile: &configFile, LoadConfig: tt.loadConfig}

			err := bc.Init(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, bc.Config)
			assert.NotNil(t, bc.GitHubClient)
			assert.NotNil(t, bc.Resolver)
			assert.NotNil(t, bc.Context)
		})
	}
}

func newCacheCommand(t *testing.T, config *cmd.Config) *BaseCommand {
	t.Helper()
	configFile := "chainlink.yaml"
	bc := &BaseCommand{
		ConfigFile: &configFile,
		LoadConfig: func(string) (*cmd.Config, error) { return config, nil },
	}
	require.NoError(t, bc.LoadConfiguration(context.Background()))
	t.Cleanup(bc.Close)
	return bc
}

func TestBaseCommand_OpenCacheDisabled(t *testing.T) {
	config := cmd.DefaultConfig()
	config.EnableCache = false
	bc := newCacheCommand(t, config)

	require.NoError(t, bc.OpenCache())
	assert.Nil(t, bc.Cache)
	assert.Nil(t, bc.LineageCache())

	_, err := bc.MigrateLegacy("legacy.yaml")
	assert.Error(t, err)
}

func TestBaseCommand_PrepareCacheMigrates(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "legacy.yaml")

	legacy, err := cache.OpenLegacyFile(legacyPath)
	require.NoError(t, err)
	require.NoError(t, legacy.Set("chainlink-acme/widgets/42", `{"ancestorPrs":[{"title":"Base","href":"","number":40,"state":"open"}]}`))

	config := cmd.DefaultConfig()
	config.CacheDir = filepath.Join(dir, "cache")
	config.LegacyStore = legacyPath
	bc := newCacheCommand(t, config)

	require.NoError(t, bc.PrepareCache())
	require.NotNil(t, bc.LineageCache())

	id := lineage.Identifier{Owner: "acme", Repo: "widgets", Number: 42}
	results, ok, err := bc.Cache.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, results.AncestorPrs, 1)
	assert.Equal(t, 40, results.AncestorPrs[0].Number)

	report, err := bc.MigrateLegacy("")
	require.NoError(t, err)
	assert.True(t, report.AlreadyMigrated)
}

func TestBaseCommand_MigrateLegacyRequiresSource(t *testing.T) {
	config := cmd.DefaultConfig()
	config.CacheDir = filepath.Join(t.TempDir(), "cache")
	bc := newCacheCommand(t, config)

	require.NoError(t, bc.OpenCache())

	_, err := bc.MigrateLegacy("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no legacy store configured")
}

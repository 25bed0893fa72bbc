package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.ShowSiblingPrs)
	assert.True(t, config.EnableCache)
	assert.Equal(t, "descending", config.SortingMethod)
	assert.Equal(t, "direct", config.Strategy)
	assert.Equal(t, "chainlink", filepath.Base(config.CacheDir))
	assert.Empty(t, config.LegacyStore)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected Config
	}{
		{
			name:   "empty config",
			config: Config{},
			expected: Config{
				SortingMethod: "descending",
				Strategy:      "direct",
				CacheDir:      DefaultCacheDir(),
			},
		},
		{
			name: "explicit values kept",
			config: Config{
				ShowSiblingPrs: true,
				SortingMethod:  "ascending",
				Strategy:       "graph",
				CacheDir:       "/tmp/cache",
				LegacyStore:    "/tmp/legacy.yaml",
			},
			expected: Config{
				ShowSiblingPrs: true,
				SortingMethod:  "ascending",
				Strategy:       "graph",
				CacheDir:       "/tmp/cache",
				LegacyStore:    "/tmp/legacy.yaml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.ApplyDefaults()
			assert.Equal(t, tt.expected, tt.config)
		})
	}
}

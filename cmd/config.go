// Package cmd defines the chainlink configuration file structure.
package cmd

import (
	"os"
	"path/filepath"
)

// DefaultConfigFile is the config path used when --config is not given
const DefaultConfigFile = "chainlink.yaml"

// Config represents the structure of chainlink.yaml
type Config struct {
	ShowSiblingPrs bool   `yaml:"show_sibling_prs"`
	SortingMethod  string `yaml:"sorting_method"`
	EnableCache    bool   `yaml:"enable_cache"`
	Strategy       string `yaml:"strategy"`
	CacheDir       string `yaml:"cache_dir,omitempty"`
	// LegacyStore is the flat key/value file migrated into the cache on first use
	LegacyStore string `yaml:"legacy_store,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		ShowSiblingPrs: true,
		SortingMethod:  "descending",
		EnableCache:    true,
		Strategy:       "direct",
		CacheDir:       DefaultCacheDir(),
	}
}

// DefaultCacheDir returns <user cache dir>/chainlink, or a relative .chainlink-cache
// when the user cache dir cannot be determined
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".chainlink-cache"
	}
	return filepath.Join(dir, "chainlink")
}

// ApplyDefaults fills zero-valued string fields from DefaultConfig
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.SortingMethod == "" {
		c.SortingMethod = defaults.SortingMethod
	}
	if c.Strategy == "" {
		c.Strategy = defaults.Strategy
	}
	if c.CacheDir == "" {
		c.CacheDir = defaults.CacheDir
	}
}

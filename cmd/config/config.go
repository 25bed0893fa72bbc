// Package config implements the config command for initializing and updating chainlink configuration.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/lineage"
	"github.com/spf13/cobra"
)

// configOptions holds the flag values; nil pointers mean "leave unchanged"
type configOptions struct {
	showSiblings  *bool
	enableCache   *bool
	sortingMethod string
	strategy      string
	cacheDir      string
	legacyStore   string
}

// NewConfigCmd creates and returns the config command
func NewConfigCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) *cobra.Command {
	var (
		opts         configOptions
		showSiblings bool
		enableCache  bool
	)

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Initialize or update the chainlink.yaml configuration file",
		Long: `Config creates chainlink.yaml, or updates it when it already exists.
Only the flags that are given are changed; everything else keeps its current
(or default) value.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			if c.Flags().Changed("siblings") {
				opts.showSiblings = &showSiblings
			}
			if c.Flags().Changed("cache") {
				opts.enableCache = &enableCache
			}
			return runConfig(c.OutOrStdout(), *globalConfigFile, opts, loadConfig, saveConfig)
		},
	}

	addConfigFlags(cobraCmd, &opts, &showSiblings, &enableCache)

	return cobraCmd
}

// addConfigFlags adds all flags to the config command
func addConfigFlags(cobraCmd *cobra.Command, opts *configOptions, showSiblings, enableCache *bool) {
	cobraCmd.Flags().BoolVar(showSiblings, "siblings", true, "Show sibling PRs")
	cobraCmd.Flags().BoolVar(enableCache, "cache", true, "Enable the lineage cache")
	cobraCmd.Flags().StringVarP(&opts.sortingMethod, "sort", "s", "", "Sort order: ascending or descending")
	cobraCmd.Flags().StringVar(&opts.strategy, "strategy", "", "Resolution strategy: direct or graph")
	cobraCmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "Directory for the cache database")
	cobraCmd.Flags().StringVar(&opts.legacyStore, "legacy-store", "", "Legacy flat cache file to migrate on first use")
}

func runConfig(out io.Writer, configFile string, opts configOptions, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	config, isUpdate := loadOrCreateConfig(configFile, loadConfig)

	updateConfigWithProvidedValues(config, opts)

	if err := saveConfig(configFile, config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	displayConfigSuccess(out, configFile, config, isUpdate)
	return nil
}

func validateOptions(opts configOptions) error {
	if opts.sortingMethod != "" {
		if _, err := lineage.ParseSortOrder(opts.sortingMethod); err != nil {
			return err
		}
	}
	if opts.strategy != "" {
		if _, err := lineage.ParseStrategy(opts.strategy); err != nil {
			return err
		}
	}
	return nil
}

// displayConfigSuccess shows the configuration success message
func displayConfigSuccess(out io.Writer, configFile string, config *cmd.Config, isUpdate bool) {
	action := "initialized"
	if isUpdate {
		action = "updated"
	}
	fmt.Fprintf(out, "Successfully %s %s with:\n", action, configFile)
	fmt.Fprintf(out, "  Show sibling PRs: %t\n", config.ShowSiblingPrs)
	fmt.Fprintf(out, "  Sorting method: %s\n", config.SortingMethod)
	fmt.Fprintf(out, "  Strategy: %s\n", config.Strategy)
	fmt.Fprintf(out, "  Cache enabled: %t\n", config.EnableCache)
	fmt.Fprintf(out, "  Cache directory: %s\n", config.CacheDir)
	if config.LegacyStore != "" {
		fmt.Fprintf(out, "  Legacy store: %s\n", config.LegacyStore)
	}
}

// loadOrCreateConfig loads existing config or creates a new one
func loadOrCreateConfig(configFile string, loadConfig func(string) (*cmd.Config, error)) (*cmd.Config, bool) {
	if config, err := loadConfig(configFile); err == nil && config != nil {
		return config, fileExists(configFile)
	}

	return cmd.DefaultConfig(), false
}

// updateConfigWithProvidedValues updates config with any provided values
func updateConfigWithProvidedValues(config *cmd.Config, opts configOptions) {
	if opts.showSiblings != nil {
		config.ShowSiblingPrs = *opts.showSiblings
	}
	if opts.enableCache != nil {
		config.EnableCache = *opts.enableCache
	}
	if opts.sortingMethod != "" {
		config.SortingMethod = opts.sortingMethod
	}
	if opts.strategy != "" {
		config.Strategy = opts.strategy
	}
	if opts.cacheDir != "" {
		config.CacheDir = opts.cacheDir
	}
	if opts.legacyStore != "" {
		config.LegacyStore = opts.legacyStore
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package cache implements the cache command for inspecting the lineage cache.
package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/commands"
	"github.com/alan/chainlink/internal/lineage"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates and returns the cache command with its subcommands
func NewCacheCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the lineage cache",
	}

	cacheCmd.AddCommand(newListCmd(globalConfigFile, loadConfig))

	return cacheCmd
}

func newListCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List cached pull requests",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			bc := &commands.BaseCommand{ConfigFile: globalConfigFile, LoadConfig: loadConfig}
			if err := bc.LoadConfiguration(cobraCmd.Context()); err != nil {
				return err
			}
			if !bc.Config.EnableCache {
				fmt.Fprintln(cobraCmd.OutOrStdout(), "Cache is disabled.")
				return nil
			}
			if err := bc.OpenCache(); err != nil {
				return err
			}
			defer bc.Close()

			return runList(bc.Context, cobraCmd.OutOrStdout(), bc.Cache)
		},
	}
}

// lister is satisfied by *cache.Store
type lister interface {
	List(ctx context.Context) ([]lineage.Identifier, error)
	Load(ctx context.Context, id lineage.Identifier) (lineage.Results, bool, error)
}

func runList(ctx context.Context, out io.Writer, store lister) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if len(ids) == 0 {
		fmt.Fprintln(out, "Cache is empty.")
		return nil
	}

	fmt.Fprintf(out, "%d cached PR(s):\n", len(ids))
	for _, id := range ids {
		results, ok, err := store.Load(ctx, id)
		if err != nil || !ok {
			fmt.Fprintf(out, "  %s (unreadable)\n", id)
			continue
		}
		fmt.Fprintf(out, "  %s  ancestors: %d  descendants: %d  siblings: %d\n",
			id, len(results.AncestorPrs), len(results.DescendantPrs), len(results.SiblingPrs))
	}

	return nil
}

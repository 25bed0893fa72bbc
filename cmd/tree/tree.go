// Package tree implements the tree command for showing every PR stacked on top of another.
package tree

import (
	"context"
	"fmt"
	"io"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/commands"
	"github.com/alan/chainlink/internal/lineage"
	"github.com/spf13/cobra"
)

// NewTreeCmd creates and returns the tree command
func NewTreeCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var (
		flags commands.ResolveFlags
		fresh bool
	)

	treeCmd := &cobra.Command{
		Use:   "tree <pr>",
		Short: "Show the full descendant tree of a pull request",
		Long: `Tree follows descendants recursively and prints every pull request
stacked on top of the given one. Each PR appears once even when several
branches point at it.

The tree is first built from the cache, then rebuilt from GitHub; the fresh
tree is printed only when it differs. Use --fresh to skip the cached pass.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			id, err := commands.ParseIdentifierArg(args)
			if err != nil {
				return err
			}

			bc := &commands.BaseCommand{ConfigFile: globalConfigFile, LoadConfig: loadConfig}
			if err := bc.Init(cobraCmd.Context()); err != nil {
				return err
			}
			if err := bc.PrepareCache(); err != nil {
				return err
			}
			defer bc.Close()

			// same shape as resolve so cached entries stay interchangeable
			settings, err := commands.BuildDisplaySettings(bc.Config, flags, bc.Config.ShowSiblingPrs)
			if err != nil {
				return err
			}

			return runTree(bc.Context, cobraCmd.OutOrStdout(), bc.Resolver, bc.LineageCache(), id, settings, fresh)
		},
	}

	treeCmd.Flags().BoolVar(&fresh, "fresh", false, "Skip the cached tree and resolve everything from GitHub")
	treeCmd.Flags().StringVar(&flags.Strategy, "strategy", "", "Resolution strategy: direct or graph (defaults to config)")
	treeCmd.Flags().StringVar(&flags.Sort, "sort", "", "Sort order: ascending or descending (defaults to config)")

	return treeCmd
}

func runTree(ctx context.Context, out io.Writer, resolver commands.LineageResolver, store commands.LineageCache, id lineage.Identifier, settings commands.DisplaySettings, skipCached bool) error {
	var cachedTree *lineage.TreeNode

	if store != nil && !skipCached {
		lookup := commands.CachedLookup(resolver, store, settings.Options)
		tree, err := lineage.BuildDescendantTree(ctx, lookup, id, settings.Order)
		if err != nil {
			return fmt.Errorf("failed to build tree for %s: %w", id, err)
		}
		cachedTree = tree

		fmt.Fprintf(out, "Descendant tree for %s (%d PRs, cached)\n", id, tree.Size())
		commands.RenderTree(out, tree)
	}

	lookup := commands.FreshLookup(resolver, store, settings.Options)
	freshTree, err := lineage.BuildDescendantTree(ctx, lookup, id, settings.Order)
	if err != nil {
		return fmt.Errorf("failed to build tree for %s: %w", id, err)
	}

	switch {
	case cachedTree == nil:
		fmt.Fprintf(out, "Descendant tree for %s (%d PRs)\n", id, freshTree.Size())
		commands.RenderTree(out, freshTree)
	case !cachedTree.Equal(freshTree):
		fmt.Fprintf(out, "\n🔄 Descendant tree updated (%d PRs)\n", freshTree.Size())
		commands.RenderTree(out, freshTree)
	default:
		fmt.Fprintln(out, "\n✅ Descendant tree is up to date")
	}

	return nil
}

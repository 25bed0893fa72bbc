// Package resolve implements the resolve command for showing the ancestors, descendants
// and siblings of a pull request.
package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/commands"
	"github.com/alan/chainlink/internal/lineage"
	"github.com/spf13/cobra"
)

// NewResolveCmd creates and returns the resolve command
func NewResolveCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var (
		flags    commands.ResolveFlags
		siblings bool
		noCache  bool
	)

	resolveCmd := &cobra.Command{
		Use:   "resolve <pr>",
		Short: "Show the ancestors, descendants and siblings of a pull request",
		Long: `Resolve finds the pull requests stacked around the given one:
ancestors (PRs whose head branch this PR targets), descendants (PRs that
target this PR's head branch) and siblings (PRs sharing its base branch).

The pull request is given as a URL or as owner/repo#number. When the cache is
enabled the last known lineage is printed first, then the fresh lineage is
shown only if it changed.`,
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

			if noCache {
				bc.Config.EnableCache = false
			}
			if err := bc.PrepareCache(); err != nil {
				return err
			}
			defer bc.Close()

			showSiblings := bc.Config.ShowSiblingPrs
			if cobraCmd.Flags().Changed("siblings") {
				showSiblings = siblings
			}

			settings, err := commands.BuildDisplaySettings(bc.Config, flags, showSiblings)
			if err != nil {
				return err
			}

			return runResolve(bc.Context, cobraCmd.OutOrStdout(), bc.Resolver, bc.LineageCache(), id, settings)
		},
	}

	resolveCmd.Flags().BoolVar(&siblings, "siblings", false, "Include sibling PRs (defaults to show_sibling_prs from config)")
	resolveCmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the cache for this run")
	resolveCmd.Flags().StringVar(&flags.Strategy, "strategy", "", "Resolution strategy: direct or graph (defaults to config)")
	resolveCmd.Flags().StringVar(&flags.Sort, "sort", "", "Sort order: ascending or descending (defaults to config)")

	return resolveCmd
}

func runResolve(ctx context.Context, out io.Writer, resolver commands.LineageResolver, store commands.LineageCache, id lineage.Identifier, settings commands.DisplaySettings) error {
	showSiblings := settings.Options.IncludeSiblings

	cached, hasCached := commands.LoadCached(ctx, store, id)
	if hasCached {
		commands.RenderLineage(out, "Cached lineage", id, cached, settings.Order, showSiblings)
		fmt.Fprintln(out)
	}

	fresh, err := commands.ResolveAndStore(ctx, resolver, store, id, settings.Options)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", id, err)
	}

	switch {
	case !hasCached:
		commands.RenderLineage(out, "Lineage", id, fresh, settings.Order, showSiblings)
	// hidden sections do not count as a change
	case lineage.IsDifferent(withoutSiblings(cached, showSiblings), withoutSiblings(fresh, showSiblings)):
		slog.Info("Lineage changed since last run", "pr", id.String())
		commands.RenderLineage(out, "🔄 Lineage updated", id, fresh, settings.Order, showSiblings)
	default:
		fmt.Fprintln(out, "✅ Lineage is up to date")
	}

	return nil
}

func withoutSiblings(results lineage.Results, keep bool) lineage.Results {
	if !keep {
		results.SiblingPrs = nil
	}
	return results
}

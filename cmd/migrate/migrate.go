// Package migrate implements the migrate command for importing the legacy flat cache file.
package migrate

import (
	"fmt"
	"io"

	"github.com/alan/chainlink/cmd"
	"github.com/alan/chainlink/internal/cache"
	"github.com/alan/chainlink/internal/commands"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates and returns the migrate command
func NewMigrateCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var from string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import lineage from the legacy cache file",
		Long: `Migrate moves every "chainlink-owner/repo/number" entry from the legacy
flat key/value file into the cache and removes it from the file. Unrelated
keys are left alone. Entries that cannot be parsed stay in the file and the
migration is retried on the next run. Once a run finishes cleanly the
migration is marked done and never runs again.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			bc := &commands.BaseCommand{ConfigFile: globalConfigFile, LoadConfig: loadConfig}
			if err := bc.LoadConfiguration(cobraCmd.Context()); err != nil {
				return err
			}
			if !bc.Config.EnableCache {
				return fmt.Errorf("cache is disabled (enable_cache: false), nothing to migrate into")
			}
			if err := bc.OpenCache(); err != nil {
				return err
			}
			defer bc.Close()

			return runMigrate(cobraCmd.OutOrStdout(), bc, from)
		},
	}

	migrateCmd.Flags().StringVar(&from, "from", "", "Legacy cache file (defaults to legacy_store from config)")

	return migrateCmd
}

// migrator is satisfied by commands.BaseCommand
type migrator interface {
	MigrateLegacy(path string) (cache.MigrationReport, error)
}

func runMigrate(out io.Writer, m migrator, from string) error {
	report, err := m.MigrateLegacy(from)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	source := from
	if source == "" {
		source = "legacy store"
	}
	commands.RenderMigrationReport(out, source, report)

	return nil
}

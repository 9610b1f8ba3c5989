package commands

import (
	"fmt"

	"github.com/SscSPs/smb_books_app/internal/platform/config"
	"github.com/SscSPs/smb_books_app/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.StorageDriver == config.StorageMemory {
				return fmt.Errorf("migrations need STORAGE_DRIVER=%s", config.StoragePostgres)
			}

			changed, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, args[0] == "up")
			if err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "no change")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", args[0])
			return nil
		},
	}
}

// Package commands implements the smbctl administration CLI.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/core/services"
	"github.com/SscSPs/smb_books_app/internal/platform/config"
	"github.com/SscSPs/smb_books_app/internal/platform/storage"
	"github.com/spf13/cobra"
)

// runtime is what the subcommands need from the outside world.
type runtime struct {
	loadConfig   func() (*config.Config, error)
	openServices func(ctx context.Context, cfg *config.Config) (*portssvc.ServiceContainer, func(), error)
	logger       *slog.Logger
}

func defaultRuntime() *runtime {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &runtime{
		loadConfig: config.LoadConfig,
		openServices: func(ctx context.Context, cfg *config.Config) (*portssvc.ServiceContainer, func(), error) {
			repos, closeRepos, err := storage.Open(ctx, cfg, false, logger)
			if err != nil {
				return nil, nil, err
			}
			return services.NewServiceContainer(cfg, repos), closeRepos, nil
		},
		logger: logger,
	}
}

// withServices loads configuration, opens storage and runs fn against the services.
func (rt *runtime) withServices(ctx context.Context, fn func(svc *portssvc.ServiceContainer) error) error {
	cfg, err := rt.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	svc, closeFn, err := rt.openServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeFn()
	return fn(svc)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRuntime())
}

func newRootCommand(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smbctl",
		Short: "Administration tool for the SMB Books backend",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(rt),
		newTokenCommand(rt),
		newCompanyCommand(rt),
		newReconcileCommand(rt),
	)

	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

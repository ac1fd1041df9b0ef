package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bistro_boss/internal/config"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

// App carries what the commands share. OpenStore is swappable so commands
// can run against any backend.
type App struct {
	Config    *config.Config
	OpenStore func(ctx context.Context, cfg *config.Config) (repo.Store, error)
	Out       io.Writer
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bistro",
		Short:         "Bistro Boss restaurant ordering API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app)
		},
	}
	root.SetOut(app.Out)

	root.AddCommand(newServeCmd(app), newMigrateCmd(app), newPromoteCmd(app))
	return root
}

// Execute runs the command line against the process environment.
func Execute() {
	app := &App{
		Config:    config.Load(),
		OpenStore: repo.Open,
		Out:       os.Stdout,
	}
	if err := NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *App) openStore(ctx context.Context) (repo.Store, error) {
	if err := a.Config.ValidateStore(); err != nil {
		return nil, err
	}
	store, err := a.OpenStore(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("store init: %w", err)
	}
	return store, nil
}

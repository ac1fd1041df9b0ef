package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
	"github.com/Skotchmaster/bistro_boss/internal/service"
)

// newPromoteCmd grants the admin role from the command line. The API only
// lets admins promote, so the first admin has to come from here.
func newPromoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Give an existing user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			pub := events.New(app.Config.KafkaBrokers, slog.Default())
			defer pub.Close()

			users := &service.UserService{Store: store, Events: pub}
			u, err := users.PromoteByEmail(ctx, args[0])
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("no user with email %s", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s) is now admin\n", u.Email, u.ID)
			return nil
		},
	}
}

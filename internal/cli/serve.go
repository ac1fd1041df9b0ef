package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bistro_boss/internal/config"
	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/httpserver"
	"github.com/Skotchmaster/bistro_boss/internal/logging"
	authmw "github.com/Skotchmaster/bistro_boss/internal/middleware/auth"
	"github.com/Skotchmaster/bistro_boss/internal/payment"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
	"github.com/Skotchmaster/bistro_boss/internal/search"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/tokens"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app)
		},
	}
	cmd.Flags().IntVar(&app.Config.Port, "port", app.Config.Port, "listen port")
	return cmd
}

func runServe(ctx context.Context, app *App) error {
	cfg := app.Config
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := app.openStore(initCtx)
	if err == nil {
		err = store.Migrate(initCtx)
	}
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("store_close_error", "error", err)
		}
	}()

	pub := events.New(cfg.KafkaBrokers, logger)
	defer pub.Close()

	deps := Wire(cfg, store, pub, openIndex(cfg, logger), payment.NewStripeGateway(cfg.StripeSecretKey))
	e := httpserver.New(deps, httpserver.Options{
		Logger:               logger,
		LegacyErrorResponses: cfg.LegacyErrorResponses,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "store", cfg.StoreDriver)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("echo shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Wire builds the handler graph over the given collaborators. A nil index
// makes menu search scan the store.
func Wire(cfg *config.Config, store repo.Store, pub events.Publisher, index search.Index, gw payment.Gateway) *httpserver.Deps {
	tok := tokens.NewService(cfg.AccessTokenSecret, cfg.TokenTTL)
	users := &service.UserService{Store: store, Events: pub}

	return &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Tokens: tok},
		Users:   &httpserver.UserHTTP{Svc: users},
		Menus:   &httpserver.MenuHTTP{Svc: &service.MenuService{Store: store, Events: pub, Index: index}},
		Carts:   &httpserver.CartHTTP{Svc: &service.CartService{Store: store, Events: pub}},
		Payment: &httpserver.PaymentHTTP{Svc: &service.PaymentService{Store: store, Gateway: gw, Events: pub}},
		Reviews: &httpserver.ReviewHTTP{Svc: &service.ReviewService{Store: store}},
		AuthMW:  &authmw.Middleware{Tokens: tok, Roles: users},
		Store:   store,

		PublicMenuDelete: cfg.PublicMenuDelete,
	}
}

// openIndex connects Elasticsearch when configured. Connection failures fall
// back to scanning the store.
func openIndex(cfg *config.Config, logger *slog.Logger) search.Index {
	if cfg.ESURL == "" {
		return nil
	}
	client, err := search.NewESClient(search.ESConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
	if err != nil {
		logger.Warn("elasticsearch_unavailable", "error", err)
		return nil
	}
	return &search.ESIndex{ES: client, Index: cfg.ESIndex}
}

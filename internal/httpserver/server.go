package httpserver

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/bistro_boss/internal/middleware/logging"
)

type Options struct {
	Logger               *slog.Logger
	LegacyErrorResponses bool
}

// New builds the echo instance with the common middleware stack and all
// routes registered.
func New(d *Deps, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.HTTPErrorHandler = ErrorHandler(opts.LegacyErrorResponses)

	e.Use(middleware.RequestID())
	if opts.Logger != nil {
		// Recovered panics flow back as errors so the request line logs them.
		recoverCfg := middleware.DefaultRecoverConfig
		recoverCfg.DisableErrorHandler = true
		e.Use(loggingmw.RequestLogger(opts.Logger))
		e.Use(middleware.RecoverWithConfig(recoverCfg))
	} else {
		e.Use(middleware.Recover())
	}
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	Register(e, d)
	return e
}

package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/payment"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/tokens"
)

// httpError maps a service error onto a status code. The wrapped error is
// kept as the internal error.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, tokens.ErrMissingEmail),
		errors.Is(err, payment.ErrInvalidAmount):
		he = echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		he = echo.NewHTTPError(http.StatusNotFound, "document not found")
	case errors.Is(err, payment.ErrGateway):
		he = echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	default:
		he = echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return he.SetInternal(err)
}

// fail logs err under event at a level matching its status and returns the
// error for the error handler to render.
func fail(l *slog.Logger, event string, err error) error {
	he := httpError(err)
	if he.Code >= http.StatusInternalServerError {
		l.Error(event, "status", he.Code, "error", err)
	} else {
		l.Warn(event, "status", he.Code, "error", err)
	}
	return he
}

func badRequest(msg string, err error) error {
	return fmt.Errorf("%s: %w: %v", msg, service.ErrValidation, err)
}

// ErrorHandler renders errors as {"message": ...}. With legacy set, failures
// raised by handlers are answered with 200 and the bare message as text, the
// way older clients expect. Authentication and authorization failures keep
// their status either way.
func ErrorHandler(legacy bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := httpError(err)
		msg := fmt.Sprint(he.Message)

		var werr error
		switch {
		case legacy && he.Internal != nil && he.Code != http.StatusUnauthorized && he.Code != http.StatusForbidden:
			werr = c.String(http.StatusOK, msg)
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(he.Code)
		default:
			werr = c.JSON(he.Code, map[string]string{"message": msg})
		}
		if werr != nil {
			c.Logger().Error(werr)
		}
	}
}

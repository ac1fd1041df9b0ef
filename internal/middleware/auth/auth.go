package auth

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/tokens"
)

const claimsKey = "claims"

const (
	msgUnauthorized  = "unAuthorized access"
	msgForbidden     = "forbidden access"
	msgForbiddenUser = "forbidden user"
)

type RoleChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type Middleware struct {
	Tokens *tokens.Service
	Roles  RoleChecker
}

// RequireAuth accepts requests carrying "Authorization: Bearer <token>" with
// a valid token and stores its claims in the context.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return m.Tokens.Verify(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_error", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
		},
	})
}

// RequireAdmin must run after RequireAuth. It looks the caller up on every
// request.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require.admin")

		claims, ok := Claims(c)
		if !ok {
			l.Warn("require_admin_error", "status", http.StatusUnauthorized)
			return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
		}

		admin, err := m.Roles.IsAdmin(ctx, claims.Email)
		if err != nil {
			l.Error("require_admin_error", "status", http.StatusInternalServerError, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
		}
		if !admin {
			l.Warn("require_admin_denied", "status", http.StatusForbidden, "email", claims.Email)
			return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
		}
		return next(c)
	}
}

// RequireSelf must run after RequireAuth. It rejects requests whose path
// parameter param differs from the caller's email.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}
			if c.Param(param) != claims.Email {
				logging.FromContext(c.Request().Context()).Warn("require_self_denied",
					"status", http.StatusForbidden, "email", claims.Email, "param", c.Param(param))
				return echo.NewHTTPError(http.StatusForbidden, msgForbiddenUser)
			}
			return next(c)
		}
	}
}

func Claims(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*tokens.Claims)
	return claims, ok && claims != nil
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/tokens"
	"github.com/Skotchmaster/bistro_boss/internal/transport"
)

type AuthHTTP struct {
	Tokens *tokens.Service
}

func (h *AuthHTTP) IssueToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "issue.token")

	var req transport.TokenRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "issue_token_error", badRequest("invalid body", err))
	}

	token, _, err := h.Tokens.Issue(req.Email)
	if err != nil {
		return fail(l, "issue_token_error", err)
	}

	l.Info("token issued", "email", req.Email)
	return c.JSON(http.StatusOK, transport.TokenResponse{Token: token})
}

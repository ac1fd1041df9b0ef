package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.users")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) CheckAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "check.admin")

	admin, err := h.Svc.IsAdmin(ctx, c.Param("email"))
	if err != nil {
		return fail(l, "check_admin_error", err)
	}
	return c.JSON(http.StatusOK, transport.AdminResponse{Admin: admin})
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_user_error", badRequest("invalid body", err))
	}

	id, err := h.Svc.Create(ctx, req.User())
	if errors.Is(err, service.ErrExists) {
		l.Info("user already exists", "email", req.Email)
		return c.JSON(http.StatusOK, transport.UserExistsResponse{Message: "user already exists"})
	}
	if err != nil {
		return fail(l, "create_user_error", err)
	}

	l.Info("user created", "id", id)
	return c.JSON(http.StatusOK, transport.InsertResult{Acknowledged: true, InsertedID: id})
}

func (h *UserHTTP) PromoteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promote.user")

	res, err := h.Svc.Promote(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "promote_user_error", err)
	}

	l.Info("user promoted", "id", c.Param("id"), "matched", res.Matched)
	return c.JSON(http.StatusOK, transport.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.Matched,
		ModifiedCount: res.Modified,
	})
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.user")

	n, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_user_error", err)
	}
	return c.JSON(http.StatusOK, transport.DeleteResult{Acknowledged: true, DeletedCount: n})
}

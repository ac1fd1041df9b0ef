package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	items, err := h.Svc.List(ctx, c.QueryParam("email"))
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	var req transport.AddCartRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "add_to_cart_error", badRequest("invalid body", err))
	}

	id, err := h.Svc.Add(ctx, req.CartItem())
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("item added to cart", "id", id)
	return c.JSON(http.StatusOK, transport.InsertResult{Acknowledged: true, InsertedID: id})
}

func (h *CartHTTP) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.from.cart")

	n, err := h.Svc.Remove(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, transport.DeleteResult{Acknowledged: true, DeletedCount: n})
}

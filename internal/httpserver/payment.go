package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.payment.intent")

	var req transport.IntentRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_intent_error", badRequest("invalid body", err))
	}

	secret, err := h.Svc.Intent(ctx, req.Price)
	if err != nil {
		return fail(l, "create_intent_error", err)
	}

	l.Info("payment intent created", "price", req.Price)
	return c.JSON(http.StatusOK, transport.IntentResponse{ClientSecret: secret})
}

func (h *PaymentHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "checkout_error", badRequest("invalid body", err))
	}

	res, err := h.Svc.Checkout(ctx, req.Payment())
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("payment recorded", "id", res.InsertedID, "carts_deleted", res.Deleted)
	return c.JSON(http.StatusOK, transport.PaymentResult{
		Acknowledged: true,
		InsertedID:   res.InsertedID,
		DeletedCount: res.Deleted,
	})
}

func (h *PaymentHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.history")

	payments, err := h.Svc.History(ctx, c.Param("email"))
	if err != nil {
		return fail(l, "payment_history_error", err)
	}
	return c.JSON(http.StatusOK, payments)
}

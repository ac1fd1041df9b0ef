package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/service"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.reviews")

	reviews, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

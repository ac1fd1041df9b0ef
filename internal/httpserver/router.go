package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	authmw "github.com/Skotchmaster/bistro_boss/internal/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth    *AuthHTTP
	Users   *UserHTTP
	Menus   *MenuHTTP
	Carts   *CartHTTP
	Payment *PaymentHTTP
	Reviews *ReviewHTTP

	AuthMW *authmw.Middleware
	Store  Pinger

	// PublicMenuDelete leaves DELETE /admin/menus/:id open to anyone.
	PublicMenuDelete bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Boss is running to restaurant")
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("readiness_error", "status", http.StatusServiceUnavailable, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := d.AuthMW.RequireAuth()
	requireAdmin := d.AuthMW.RequireAdmin

	api := e.Group("/api/v1")

	api.POST("/auth/jwt", d.Auth.IssueToken)

	api.GET("/users", d.Users.ListUsers, requireAuth, requireAdmin)
	api.GET("/users/admin/:email", d.Users.CheckAdmin, requireAuth, authmw.RequireSelf("email"))
	api.POST("/users", d.Users.CreateUser)
	api.PATCH("/users/admin/:id", d.Users.PromoteUser, requireAuth, requireAdmin)
	api.DELETE("/users/:id", d.Users.DeleteUser, requireAuth, requireAdmin)

	api.GET("/user/cart", d.Carts.GetCart)
	api.POST("/user/cart", d.Carts.AddToCart)
	api.DELETE("/user/cart/:id", d.Carts.DeleteFromCart)

	api.GET("/user/menus", d.Menus.ListMenus)
	api.GET("/user/menus/search", d.Menus.SearchMenus)
	api.GET("/user/menus/:id", d.Menus.GetMenu)

	admin := api.Group("/admin/menus")
	admin.POST("", d.Menus.CreateMenu, requireAuth, requireAdmin)
	admin.PATCH("/:id", d.Menus.PatchMenu, requireAuth, requireAdmin)
	if d.PublicMenuDelete {
		admin.DELETE("/:id", d.Menus.DeleteMenu)
	} else {
		admin.DELETE("/:id", d.Menus.DeleteMenu, requireAuth, requireAdmin)
	}

	api.GET("/user/payment/:email", d.Payment.History, requireAuth, authmw.RequireSelf("email"))
	api.POST("/user/create-payment-intent", d.Payment.CreateIntent)
	api.POST("/user/payment", d.Payment.Checkout)

	api.GET("/user/reviews", d.Reviews.ListReviews)
}

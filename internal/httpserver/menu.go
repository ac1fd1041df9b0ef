package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/service"
	"github.com/Skotchmaster/bistro_boss/internal/transport"
	"github.com/Skotchmaster/bistro_boss/internal/util"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) ListMenus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.menus")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_menus_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.menu")

	item, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_menu_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) SearchMenus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.menus")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_menus_error", err)
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Data: items})
}

func (h *MenuHTTP) CreateMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.menu")

	var req transport.CreateMenuRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_menu_error", badRequest("invalid body", err))
	}

	id, err := h.Svc.Create(ctx, req.MenuItem())
	if err != nil {
		return fail(l, "create_menu_error", err)
	}

	l.Info("menu item created", "id", id)
	return c.JSON(http.StatusOK, transport.InsertResult{Acknowledged: true, InsertedID: id})
}

func (h *MenuHTTP) PatchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patch.menu")

	var req transport.PatchMenuRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "patch_menu_error", badRequest("invalid body", err))
	}

	res, err := h.Svc.Update(ctx, c.Param("id"), service.MenuPatch{
		Name:     req.Name,
		Recipe:   req.Recipe,
		Image:    req.Image,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		return fail(l, "patch_menu_error", err)
	}

	l.Info("menu item updated", "id", c.Param("id"), "matched", res.Matched)
	return c.JSON(http.StatusOK, transport.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.Matched,
		ModifiedCount: res.Modified,
	})
}

func (h *MenuHTTP) DeleteMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.menu")

	n, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_menu_error", err)
	}
	return c.JSON(http.StatusOK, transport.DeleteResult{Acknowledged: true, DeletedCount: n})
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/logging"
	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
	"github.com/Skotchmaster/bistro_boss/internal/search"
	"github.com/Skotchmaster/bistro_boss/internal/util"
)

type MenuService struct {
	Store  repo.Store
	Events events.Publisher
	Index  search.Index
}

// MenuPatch holds the fields an update may change. Nil fields are left as
// they are.
type MenuPatch struct {
	Name     *string
	Recipe   *string
	Image    *string
	Category *string
	Price    *float64
}

func (p MenuPatch) fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Recipe != nil {
		f["recipe"] = *p.Recipe
	}
	if p.Image != nil {
		f["image"] = *p.Image
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Price != nil {
		f["price"] = *p.Price
	}
	return f
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.Store.Menus().List(ctx, nil)
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.Store.Menus().Get(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, item *models.MenuItem) (string, error) {
	if strings.TrimSpace(item.Name) == "" {
		return "", fmt.Errorf("name is required: %w", ErrValidation)
	}
	if item.Price < 0 {
		return "", fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	item.ID = ""

	id, err := s.Store.Menus().Insert(ctx, item)
	if err != nil {
		return "", fmt.Errorf("insert menu item: %w", err)
	}

	s.reindex(ctx, *item)
	publish(ctx, s.Events, events.TopicMenus, events.Event{Type: events.MenuCreated, ID: id})
	return id, nil
}

func (s *MenuService) Update(ctx context.Context, id string, patch MenuPatch) (repo.UpdateResult, error) {
	fields := patch.fields()
	if len(fields) == 0 {
		return repo.UpdateResult{}, fmt.Errorf("nothing to update: %w", ErrValidation)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return repo.UpdateResult{}, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}

	res, err := s.Store.Menus().Update(ctx, id, fields)
	if err != nil {
		return repo.UpdateResult{}, fmt.Errorf("update menu item: %w", err)
	}
	if res.Matched == 0 {
		return res, nil
	}

	if item, err := s.Store.Menus().Get(ctx, id); err == nil {
		s.reindex(ctx, *item)
	} else {
		logging.FromContext(ctx).Warn("menu_reindex_error", "id", id, "error", err)
	}
	publish(ctx, s.Events, events.TopicMenus, events.Event{Type: events.MenuUpdated, ID: id})
	return res, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.Store.Menus().Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete menu item: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_unindex_error", "id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicMenus, events.Event{Type: events.MenuDeleted, ID: id})
	return n, nil
}

// Search pages through menu items matching query. Page numbers start at 1.
func (s *MenuService) Search(ctx context.Context, query string, page, size int) (int64, []models.MenuItem, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	from, limit := util.Calculate(page, size)

	idx := s.Index
	if idx == nil {
		idx = search.ScanIndex{Menus: s.Store.Menus()}
	}
	total, items, err := idx.Search(ctx, query, from, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search menu: %w", err)
	}
	return total, items, nil
}

func (s *MenuService) reindex(ctx context.Context, item models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_error", "id", item.ID, "error", err)
	}
}

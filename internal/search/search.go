package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

// Index keeps a searchable copy of the menu.
type Index interface {
	Put(ctx context.Context, item models.MenuItem) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error)
}

type ESConfig struct {
	URL      string
	User     string
	Password string
}

func NewESClient(cfg ESConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error response %s: %s", res.Status(), body)
	}

	return client, nil
}

// menuDoc is the indexed form of a menu item. Elasticsearch reserves "_id",
// so the identifier travels as "id".
type menuDoc struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func toDoc(m models.MenuItem) menuDoc {
	return menuDoc{ID: m.ID, Name: m.Name, Recipe: m.Recipe, Image: m.Image, Category: m.Category, Price: m.Price}
}

func (d menuDoc) item() models.MenuItem {
	return models.MenuItem{ID: d.ID, Name: d.Name, Recipe: d.Recipe, Image: d.Image, Category: d.Category, Price: d.Price}
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (x *ESIndex) Put(ctx context.Context, item models.MenuItem) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDoc(item)); err != nil {
		return err
	}

	res, err := x.ES.Index(x.Index, &buf,
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(item.ID),
	)
	if err != nil {
		return fmt.Errorf("index menu %s: %w", item.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index menu %s: %s", item.ID, res.Status())
	}
	return nil
}

func (x *ESIndex) Remove(ctx context.Context, id string) error {
	res, err := x.ES.Delete(x.Index, id, x.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove menu %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove menu %s: %s", id, res.Status())
	}
	return nil
}

// maxResultWindow is the default index.max_result_window; Elasticsearch
// rejects pages that end beyond it.
const maxResultWindow = 10000

func (x *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	if from < 0 {
		from = 0
	}
	// Past the window only the total is fetched.
	countOnly := size <= 0 || from > maxResultWindow-size
	if countOnly {
		from, size = 0, 0
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category", "recipe"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search error: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source menuDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	if countOnly {
		return r.Hits.Total.Value, []models.MenuItem{}, nil
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source.item()
	}
	return r.Hits.Total.Value, items, nil
}

// ScanIndex answers searches straight from the menu collection. It needs no
// upkeep, so Put and Remove do nothing.
type ScanIndex struct {
	Menus repo.Collection[models.MenuItem]
}

func (ScanIndex) Put(context.Context, models.MenuItem) error { return nil }
func (ScanIndex) Remove(context.Context, string) error       { return nil }

func (x ScanIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	all, err := x.Menus.List(ctx, nil)
	if err != nil {
		return 0, nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.MenuItem, 0)
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Category), q) ||
			strings.Contains(strings.ToLower(m.Recipe), q) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	if from < 0 {
		from = 0
	}
	if from >= len(matched) || size <= 0 {
		return total, []models.MenuItem{}, nil
	}
	end := from + size
	if end > len(matched) || end < from {
		end = len(matched)
	}
	return total, matched[from:end], nil
}

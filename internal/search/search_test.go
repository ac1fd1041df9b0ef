package search

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo/repotest"
)

func TestScanIndex_Search(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	ctx := context.Background()
	for _, m := range []models.MenuItem{
		{Name: "Caesar Salad", Category: "salad", Recipe: "romaine, parmesan", Price: 9.5},
		{Name: "Tomato Soup", Category: "soup", Recipe: "tomato, basil", Price: 6},
		{Name: "Margherita", Category: "pizza", Recipe: "tomato, mozzarella", Price: 12},
	} {
		m := m
		_, err := store.Menus().Insert(ctx, &m)
		require.NoError(t, err)
	}

	idx := ScanIndex{Menus: store.Menus()}

	total, items, err := idx.Search(ctx, "TOMATO", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Margherita", items[0].Name)
	assert.Equal(t, "Tomato Soup", items[1].Name)

	total, items, err = idx.Search(ctx, "tomato", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Tomato Soup", items[0].Name)

	total, items, err = idx.Search(ctx, "tomato", 5, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, items)

	total, items, err = idx.Search(ctx, "tomato", math.MaxInt, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, items)

	total, items, err = idx.Search(ctx, "tomato", -10, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Margherita", items[0].Name)

	assert.NoError(t, idx.Put(ctx, models.MenuItem{}))
	assert.NoError(t, idx.Remove(ctx, "x"))
}

type esStub struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (s *esStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.bodies = append(s.bodies, string(body))
	s.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"m1","name":"Tomato Soup","category":"soup","price":6}}]}}`))
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newStubIndex(t *testing.T, stub *esStub) *ESIndex {
	t.Helper()

	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ESIndex{ES: client, Index: "menus"}
}

func TestESIndex_RoundTrip(t *testing.T) {
	t.Parallel()

	stub := &esStub{}
	idx := newStubIndex(t, stub)
	ctx := context.Background()

	require.NoError(t, idx.Put(ctx, models.MenuItem{ID: "m1", Name: "Tomato Soup", Category: "soup", Price: 6}))
	require.NoError(t, idx.Remove(ctx, "gone"))

	total, items, err := idx.Search(ctx, "tomato", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, "Tomato Soup", items[0].Name)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.requests, 3)
	assert.Equal(t, "PUT /menus/_doc/m1", stub.requests[0])
	assert.Equal(t, "DELETE /menus/_doc/gone", stub.requests[1])
	assert.Equal(t, "POST /menus/_search", stub.requests[2])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stub.bodies[0]), &doc))
	assert.Equal(t, "m1", doc["id"])
	assert.NotContains(t, doc, "_id")
	assert.Contains(t, stub.bodies[2], `"multi_match"`)
}

func TestESIndex_PageBeyondWindow(t *testing.T) {
	t.Parallel()

	stub := &esStub{}
	idx := newStubIndex(t, stub)

	total, items, err := idx.Search(context.Background(), "tomato", math.MaxInt, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, items)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.bodies, 1)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(stub.bodies[0]), &body))
	assert.EqualValues(t, 0, body["from"])
	assert.EqualValues(t, 0, body["size"])
}

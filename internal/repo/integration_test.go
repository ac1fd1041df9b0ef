//go:build integration

package repo_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

var tables = []string{"users", "menu_items", "reviews", "cart_items", "payments"}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bistro"),
		postgres.WithUsername("bistro"),
		postgres.WithPassword("bistro"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func truncate(t *testing.T, dsn string) {
	t.Helper()

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	for _, name := range tables {
		_, err := db.Exec("TRUNCATE TABLE " + pq.QuoteIdentifier(name))
		require.NoError(t, err)
	}
}

func TestPostgres_Store(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	store, err := repo.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })
	require.NoError(t, store.Migrate(ctx))

	t.Run("duplicate email", func(t *testing.T) {
		t.Cleanup(func() { truncate(t, dsn) })

		_, err := store.Users().Insert(ctx, &models.User{Email: "dup@x.com"})
		require.NoError(t, err)
		_, err = store.Users().Insert(ctx, &models.User{Email: "dup@x.com"})
		assert.ErrorIs(t, err, repo.ErrDuplicate)
	})

	t.Run("checkout transaction", func(t *testing.T) {
		t.Cleanup(func() { truncate(t, dsn) })

		a, err := store.Carts().Insert(ctx, &models.CartItem{Email: "a@x.com"})
		require.NoError(t, err)
		b, err := store.Carts().Insert(ctx, &models.CartItem{Email: "a@x.com"})
		require.NoError(t, err)

		var deleted int64
		err = store.InTx(ctx, func(ctx context.Context, s repo.Store) error {
			if _, err := s.Payments().Insert(ctx, &models.Payment{Email: "a@x.com", Price: 3, CartIDs: []string{a, b, "gone"}}); err != nil {
				return err
			}
			deleted, err = s.Carts().DeleteMany(ctx, repo.Filter{"id": []string{a, b, "gone"}})
			return err
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted)

		payments, err := store.Payments().List(ctx, repo.Filter{"email": "a@x.com"})
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, []string{a, b, "gone"}, payments[0].CartIDs)
	})
}

func TestMongo_Store(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()

	store, err := repo.OpenMongo(ctx, uri, "bistro_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.DB.Drop(ctx)
		_ = store.Close(ctx)
	})
	require.NoError(t, store.Migrate(ctx))

	id, err := store.Users().Insert(ctx, &models.User{Email: "m@x.com", Role: models.RoleUser})
	require.NoError(t, err)
	_, err = store.Users().Insert(ctx, &models.User{Email: "m@x.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	res, err := store.Users().Update(ctx, id, map[string]any{"role": models.RoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	u, err := store.Users().FindOne(ctx, repo.Filter{"email": "m@x.com"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	n, err := store.Users().Delete(ctx, "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

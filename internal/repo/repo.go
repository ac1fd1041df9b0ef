package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bistro_boss/internal/models"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicate   = errors.New("duplicate document")
	ErrEmptyFilter = errors.New("empty filter")
)

// Filter is a conjunction of equality predicates keyed by field name.
// A []string value matches any of the listed values.
type Filter map[string]any

type UpdateResult struct {
	Matched  int64
	Modified int64
}

type Collection[T any] interface {
	List(ctx context.Context, f Filter) ([]T, error)
	FindOne(ctx context.Context, f Filter) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteMany(ctx context.Context, f Filter) (int64, error)
}

type Store interface {
	Users() Collection[models.User]
	Menus() Collection[models.MenuItem]
	Reviews() Collection[models.Review]
	Carts() Collection[models.CartItem]
	Payments() Collection[models.Payment]

	// InTx runs fn inside a single transaction. fn must use the Store and the
	// context it receives so that every operation joins the transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type identifiable interface {
	EnsureID() string
}

func ensureID(doc any) string {
	if d, ok := doc.(identifiable); ok {
		return d.EnsureID()
	}
	return ""
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/payment"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
	"github.com/Skotchmaster/bistro_boss/internal/repo/repotest"
)

type recorder struct {
	mu  sync.Mutex
	got []events.Event
	err error
}

func (r *recorder) Publish(_ context.Context, _ string, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	for i, ev := range r.got {
		out[i] = ev.Type
	}
	return out
}

type fakeGateway struct {
	amount int64
	err    error
}

func (g *fakeGateway) CreateIntent(_ context.Context, price float64, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.amount = payment.ToMinorUnits(price)
	return "pi_secret", nil
}

func TestUserService_CreateTwice(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	rec := &recorder{}
	svc := &UserService{Store: store, Events: rec}
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = svc.Create(ctx, &models.User{Name: "Ann again", Email: "ann@x.com"})
	assert.ErrorIs(t, err, ErrExists)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleUser, users[0].Role)
	assert.Equal(t, []string{events.UserCreated}, rec.types())

	_, err = svc.Create(ctx, &models.User{Name: "nobody"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_PromoteScenario(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	svc := &UserService{Store: store, Events: events.Nop{}}
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.User{Email: "u@x.com"})
	require.NoError(t, err)

	admin, err := svc.IsAdmin(ctx, "u@x.com")
	require.NoError(t, err)
	assert.False(t, admin)

	res, err := svc.Promote(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	admin, err = svc.IsAdmin(ctx, "u@x.com")
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, admin)

	_, err = svc.PromoteByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	n, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCartService(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	rec := &recorder{err: errors.New("broker down")}
	svc := &CartService{Store: store, Events: rec}
	ctx := context.Background()

	id, err := svc.Add(ctx, &models.CartItem{MenuID: "m1", Email: "a@x.com", Name: "Soup", Price: 6})
	require.NoError(t, err, "publish failures must not fail the request")

	items, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].Quantity)

	_, err = svc.List(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	n, err := svc.Remove(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = svc.Remove(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	assert.Equal(t, []string{events.CartItemAdded, events.CartItemRemoved}, rec.types())
}

func TestPaymentService_Checkout(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	rec := &recorder{}
	svc := &PaymentService{Store: store, Gateway: &fakeGateway{}, Events: rec}
	ctx := context.Background()

	carts := &CartService{Store: store}
	a, err := carts.Add(ctx, &models.CartItem{Email: "a@x.com"})
	require.NoError(t, err)
	b, err := carts.Add(ctx, &models.CartItem{Email: "a@x.com"})
	require.NoError(t, err)
	keep, err := carts.Add(ctx, &models.CartItem{Email: "a@x.com"})
	require.NoError(t, err)

	res, err := svc.Checkout(ctx, &models.Payment{
		Email:         "a@x.com",
		Price:         15,
		TransactionID: "pi_1",
		CartIDs:       []string{a, b, "already-gone"},
		Status:        "pending",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.InsertedID)
	assert.EqualValues(t, 2, res.Deleted)

	left, err := carts.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep, left[0].ID)

	history, err := svc.History(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "usd", history[0].Currency)
	assert.False(t, history[0].Date.IsZero())

	require.Len(t, rec.got, 1)
	assert.Equal(t, events.PaymentCompleted, rec.got[0].Type)
	assert.EqualValues(t, 2, rec.got[0].Count)

	_, err = svc.Checkout(ctx, &models.Payment{Price: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentService_Intent(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	svc := &PaymentService{Gateway: gw}

	secret, err := svc.Intent(context.Background(), 19.99)
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", secret)
	assert.EqualValues(t, 1999, gw.amount)

	svc.Gateway = &fakeGateway{err: payment.ErrGateway}
	_, err = svc.Intent(context.Background(), 5)
	assert.ErrorIs(t, err, payment.ErrGateway)
}

func TestMenuService(t *testing.T) {
	t.Parallel()

	store := repotest.NewSQLite(t)
	rec := &recorder{}
	svc := &MenuService{Store: store, Events: rec}
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.MenuItem{Name: "Tomato Soup", Category: "soup", Recipe: "tomato", Price: 6})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.MenuItem{Name: "Caesar", Category: "salad", Price: 9})
	require.NoError(t, err)

	price := 7.5
	res, err := svc.Update(ctx, id, MenuPatch{Price: &price})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	item, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7.5, item.Price)
	assert.Equal(t, "Tomato Soup", item.Name)
	assert.Equal(t, "soup", item.Category)

	res, err = svc.Update(ctx, "missing", MenuPatch{Price: &price})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Matched)

	total, found, err := svc.Search(ctx, "SOUP", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	n, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	assert.Equal(t, []string{events.MenuCreated, events.MenuCreated, events.MenuUpdated, events.MenuDeleted}, rec.types())
}

func TestMenuService_Validation(t *testing.T) {
	t.Parallel()

	svc := &MenuService{Store: repotest.NewSQLite(t)}
	ctx := context.Background()
	negative := -1.0

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "create without name", run: func() error {
			_, err := svc.Create(ctx, &models.MenuItem{Price: 1})
			return err
		}},
		{name: "create with negative price", run: func() error {
			_, err := svc.Create(ctx, &models.MenuItem{Name: "x", Price: -1})
			return err
		}},
		{name: "empty patch", run: func() error {
			_, err := svc.Update(ctx, "id", MenuPatch{})
			return err
		}},
		{name: "negative patch price", run: func() error {
			_, err := svc.Update(ctx, "id", MenuPatch{Price: &negative})
			return err
		}},
		{name: "empty search", run: func() error {
			_, _, err := svc.Search(ctx, " ", 1, 10)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrValidation)
		})
	}
}

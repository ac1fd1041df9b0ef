package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/payment"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

type PaymentService struct {
	Store   repo.Store
	Gateway payment.Gateway
	Events  events.Publisher
}

type CheckoutResult struct {
	InsertedID string
	Deleted    int64
}

// Intent asks the gateway for a payment intent and returns its client secret.
func (s *PaymentService) Intent(ctx context.Context, price float64) (string, error) {
	return s.Gateway.CreateIntent(ctx, price, payment.DefaultCurrency)
}

func (s *PaymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	return s.Store.Payments().List(ctx, repo.Filter{"email": email})
}

// Checkout records p and removes the cart items it pays for in one
// transaction. Cart ids that no longer exist are skipped, so Deleted may be
// smaller than len(p.CartIDs).
func (s *PaymentService) Checkout(ctx context.Context, p *models.Payment) (CheckoutResult, error) {
	if strings.TrimSpace(p.Email) == "" {
		return CheckoutResult{}, fmt.Errorf("email is required: %w", ErrValidation)
	}
	p.ID = ""
	if p.Currency == "" {
		p.Currency = payment.DefaultCurrency
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}

	var res CheckoutResult
	err := s.Store.InTx(ctx, func(ctx context.Context, tx repo.Store) error {
		id, err := tx.Payments().Insert(ctx, p)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		res = CheckoutResult{InsertedID: id}

		if len(p.CartIDs) == 0 {
			return nil
		}
		n, err := tx.Carts().DeleteMany(ctx, repo.Filter{"id": p.CartIDs})
		if err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		res.Deleted = n
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	publish(ctx, s.Events, events.TopicPayments, events.Event{
		Type:  events.PaymentCompleted,
		ID:    res.InsertedID,
		Email: p.Email,
		Count: res.Deleted,
	})
	return res, nil
}

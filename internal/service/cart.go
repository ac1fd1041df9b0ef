package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

type CartService struct {
	Store  repo.Store
	Events events.Publisher
}

func (s *CartService) List(ctx context.Context, email string) ([]models.CartItem, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required: %w", ErrValidation)
	}
	return s.Store.Carts().List(ctx, repo.Filter{"email": email})
}

func (s *CartService) Add(ctx context.Context, item *models.CartItem) (string, error) {
	if strings.TrimSpace(item.Email) == "" {
		return "", fmt.Errorf("email is required: %w", ErrValidation)
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	item.ID = ""

	id, err := s.Store.Carts().Insert(ctx, item)
	if err != nil {
		return "", fmt.Errorf("insert cart item: %w", err)
	}

	publish(ctx, s.Events, events.TopicCarts, events.Event{Type: events.CartItemAdded, ID: id, Email: item.Email})
	return id, nil
}

// Remove deletes one cart item. Removing an absent item reports zero.
func (s *CartService) Remove(ctx context.Context, id string) (int64, error) {
	n, err := s.Store.Carts().Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete cart item: %w", err)
	}
	if n > 0 {
		publish(ctx, s.Events, events.TopicCarts, events.Event{Type: events.CartItemRemoved, ID: id})
	}
	return n, nil
}

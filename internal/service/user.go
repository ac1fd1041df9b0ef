package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

type UserService struct {
	Store  repo.Store
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Store.Users().List(ctx, nil)
}

// Create stores u unless a user with the same email exists, in which case
// it returns ErrExists. Emails match case-sensitively.
func (s *UserService) Create(ctx context.Context, u *models.User) (string, error) {
	if strings.TrimSpace(u.Email) == "" {
		return "", fmt.Errorf("email is required: %w", ErrValidation)
	}

	_, err := s.Store.Users().FindOne(ctx, repo.Filter{"email": u.Email})
	switch {
	case err == nil:
		return "", ErrExists
	case !errors.Is(err, repo.ErrNotFound):
		return "", fmt.Errorf("find user: %w", err)
	}

	u.ID = ""
	u.Role = models.RoleUser
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	id, err := s.Store.Users().Insert(ctx, u)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, events.Event{Type: events.UserCreated, ID: id, Email: u.Email})
	return id, nil
}

// IsAdmin reports whether email belongs to an admin. An unknown email is
// not an error.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.Store.Users().FindOne(ctx, repo.Filter{"email": email})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return u.IsAdmin(), nil
}

func (s *UserService) Promote(ctx context.Context, id string) (repo.UpdateResult, error) {
	if id == "" {
		return repo.UpdateResult{}, fmt.Errorf("id is required: %w", ErrValidation)
	}

	res, err := s.Store.Users().Update(ctx, id, map[string]any{"role": models.RoleAdmin})
	if err != nil {
		return repo.UpdateResult{}, fmt.Errorf("promote user: %w", err)
	}
	if res.Matched > 0 {
		publish(ctx, s.Events, events.TopicUsers, events.Event{Type: events.UserPromoted, ID: id})
	}
	return res, nil
}

// PromoteByEmail grants the admin role to an existing user.
func (s *UserService) PromoteByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.Store.Users().FindOne(ctx, repo.Filter{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	if _, err := s.Promote(ctx, u.ID); err != nil {
		return nil, err
	}
	u.Role = models.RoleAdmin
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.Store.Users().Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	if n > 0 {
		publish(ctx, s.Events, events.TopicUsers, events.Event{Type: events.UserDeleted, ID: id})
	}
	return n, nil
}

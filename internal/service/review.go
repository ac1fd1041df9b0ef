package service

import (
	"context"

	"github.com/Skotchmaster/bistro_boss/internal/models"
	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

type ReviewService struct {
	Store repo.Store
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.Store.Reviews().List(ctx, nil)
}

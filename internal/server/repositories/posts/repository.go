// Package posts stores posts together with a reference to their creator.
package posts

import (
	"context"

	"github.com/dmitrijs2005/inkpost/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, offset, limit int) ([]*models.Post, error)
	Count(ctx context.Context) (int, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
}

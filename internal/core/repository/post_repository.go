package repository

import (
	"context"

	"github.com/martijn/scribe/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Post, error)
}

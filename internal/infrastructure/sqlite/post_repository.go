package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/repository"
)

type postRepository struct {
	db *DB
}

func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO post (user_id, title, content, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		post.AuthorID,
		post.Title,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get post id: %w", err)
	}
	post.ID = id

	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT post.id, post.user_id, post.title, post.content, post.created_at,
		       user.username AS author_username
		FROM post
		JOIN user ON post.user_id = user.id
		WHERE post.id = ?
	`
	var post domain.Post
	err := r.db.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	query := `
		SELECT post.id, post.user_id, post.title, post.content, post.created_at,
		       user.username AS author_username
		FROM post
		JOIN user ON post.user_id = user.id
		ORDER BY post.id DESC
	`
	var posts []*domain.Post
	err := r.db.SelectContext(ctx, &posts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Post, error) {
	query := `
		SELECT post.id, post.user_id, post.title, post.content, post.created_at,
		       user.username AS author_username
		FROM post
		JOIN user ON post.user_id = user.id
		WHERE post.user_id = ?
		ORDER BY post.id DESC
	`
	var posts []*domain.Post
	err := r.db.SelectContext(ctx, &posts, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return posts, nil
}

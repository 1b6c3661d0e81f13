package service

import (
	"context"
	"errors"
	"strings"

	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Create appends a post to the ledger on behalf of an existing user.
func (s *PostService) Create(ctx context.Context, authorID int64, title, content string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return nil, &InvalidInputError{Fields: missing}
	}

	// Every post must reference an existing user at insert time
	author, err := s.userRepo.FindByID(ctx, authorID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, ErrUnknownAuthor
	}
	if err != nil {
		return nil, err
	}

	post := domain.NewPost(author.ID, title, content)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.AuthorUsername = author.Username

	return post, nil
}

// ListAll returns every post joined with its author's username, newest
// first. Each call re-reads current state.
func (s *PostService) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return s.postRepo.ListAll(ctx)
}

// Get returns a single post by id, or domain.ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

// ListByAuthor returns a user's own posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

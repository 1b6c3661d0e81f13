package dto

import "time"

// CreatePostRequest represents the post creation request
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostResponse represents a post joined with its author's username
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse represents a list of posts
type PostListResponse struct {
	Items []PostResponse `json:"items"`
	Total int            `json:"total"`
}

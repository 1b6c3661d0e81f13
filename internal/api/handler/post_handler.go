package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/scribe/internal/api/dto"
	"github.com/martijn/scribe/internal/api/middleware"
	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// CreatePost handles POST /posts. Requires authentication.
func (h *PostHandler) CreatePost(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "No session",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), session.UserID, req.Title, req.Content)
	if err != nil {
		var inputErr *service.InvalidInputError
		switch {
		case errors.As(err, &inputErr):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: inputErr.Error(),
				Code:    http.StatusBadRequest,
			})
		case errors.Is(err, service.ErrUnknownAuthor):
			// The gate guarantees the author exists; reaching this means
			// the store and the session disagree
			log.Printf("consistency fault: session user %d has no user row", session.UserID)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "post author does not exist",
				Code:    http.StatusInternalServerError,
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal Server Error",
				Message: err.Error(),
				Code:    http.StatusInternalServerError,
			})
		}
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

// ListPosts handles GET /posts. Public feed, newest first.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, toPostListResponse(posts))
}

// GetPost handles GET /posts/:id. Public.
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid post id",
			Code:    http.StatusBadRequest,
		})
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if errors.Is(err, domain.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Post not found: %d", id),
			Code:    http.StatusNotFound,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

// ListMyPosts handles GET /dashboard/posts. Requires authentication.
func (h *PostHandler) ListMyPosts(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "No session",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	posts, err := h.postService.ListByAuthor(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, toPostListResponse(posts))
}

func toPostResponse(post *domain.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.AuthorUsername,
		CreatedAt: post.CreatedAt,
	}
}

func toPostListResponse(posts []*domain.Post) dto.PostListResponse {
	items := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, toPostResponse(post))
	}
	return dto.PostListResponse{
		Items: items,
		Total: len(items),
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/scribe/internal/api/dto"
	"github.com/martijn/scribe/internal/api/middleware"
	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/service"
)

type AuthHandler struct {
	authService       *service.AuthService
	sessionTTLSeconds int
}

func NewAuthHandler(authService *service.AuthService, sessionTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		sessionTTLSeconds: sessionTTLSeconds,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var inputErr *service.InvalidInputError
		switch {
		case errors.As(err, &inputErr):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: inputErr.Error(),
				Code:    http.StatusBadRequest,
			})
		case errors.Is(err, domain.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: "Username already exists. Please choose another.",
				Code:    http.StatusConflict,
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

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		// Unknown username and wrong password get the same response
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid username or password",
			Code:    http.StatusUnauthorized,
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

	token, _, err := h.authService.StartSession(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, h.sessionTTLSeconds, "/", "", false, true)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.sessionTTLSeconds,
	})
}

// Logout handles POST /logout. Logging out without a session is a no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)
	if token != "" {
		if err := h.authService.EndSession(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal Server Error",
				Message: err.Error(),
				Code:    http.StatusInternalServerError,
			})
			return
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

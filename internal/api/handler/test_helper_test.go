package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/scribe/internal/api/dto"
	"github.com/martijn/scribe/internal/api/middleware"
	"github.com/martijn/scribe/internal/core/service"
	"github.com/martijn/scribe/internal/infrastructure/sqlite"
)

// testEnv holds all test dependencies
type testEnv struct {
	db          *sqlite.DB
	router      *gin.Engine
	authHandler *AuthHandler
	postHandler *PostHandler
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Use in-memory SQLite database
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Create repositories
	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	// Create services
	authService := service.NewAuthService(userRepo, sessionRepo, "test-secret-key", "HS256", time.Hour)
	postService := service.NewPostService(postRepo, userRepo)

	// Create handlers
	authHandler := NewAuthHandler(authService, 3600)
	postHandler := NewPostHandler(postService)

	// Setup gin router in test mode with the production route layout
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authMiddleware := middleware.AuthMiddleware(authService)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.GET("/posts", postHandler.ListPosts)
	router.GET("/posts/:id", postHandler.GetPost)
	router.POST("/posts", authMiddleware, postHandler.CreatePost)
	router.GET("/dashboard/posts", authMiddleware, postHandler.ListMyPosts)

	return &testEnv{
		db:          db,
		router:      router,
		authHandler: authHandler,
		postHandler: postHandler,
	}
}

// cleanup closes the test database
func (env *testEnv) cleanup() {
	if env.db != nil {
		env.db.Close()
	}
}

// makeRequest performs a request with an optional JSON body and bearer token
func (env *testEnv) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// registerUser registers a user and returns its assigned id
func (env *testEnv) registerUser(t *testing.T, username, password string) int64 {
	t.Helper()

	w := env.makeRequest(t, http.MethodPost, "/register", dto.RegisterRequest{
		Username: username,
		Password: password,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s returned %d: %s", username, w.Code, w.Body.String())
	}

	var resp dto.RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse register response: %v\nBody: %s", err, w.Body.String())
	}
	return resp.ID
}

// loginUser logs a user in and returns the session token
func (env *testEnv) loginUser(t *testing.T, username, password string) string {
	t.Helper()

	w := env.makeRequest(t, http.MethodPost, "/login", dto.LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s returned %d: %s", username, w.Code, w.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v\nBody: %s", err, w.Body.String())
	}
	return resp.Token
}

// parsePostResponse parses the response body into PostResponse
func parsePostResponse(t *testing.T, w *httptest.ResponseRecorder) dto.PostResponse {
	t.Helper()

	var resp dto.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parsePostListResponse parses the response body into PostListResponse
func parsePostListResponse(t *testing.T, w *httptest.ResponseRecorder) dto.PostListResponse {
	t.Helper()

	var resp dto.PostListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

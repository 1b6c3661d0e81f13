package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 10

type AuthService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	jwtSecret    string
	jwtAlgorithm string
	sessionTTL   time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	jwtAlgorithm string,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		jwtSecret:    jwtSecret,
		jwtAlgorithm: jwtAlgorithm,
		sessionTTL:   sessionTTL,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new user account. The raw password is never stored;
// only its bcrypt hash is persisted.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, &InvalidInputError{Fields: missing}
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, hashedPassword)
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index arbitrates racing registrations; exactly one
		// of two concurrent inserts for the same username wins.
		return nil, err
	}

	return user, nil
}

// Authenticate checks a username/password pair. Unknown user and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartSession persists a session for the user and returns a signed token
// carrying the session id. The {user_id, username} binding never changes
// for the session's lifetime.
func (s *AuthService) StartSession(ctx context.Context, user *domain.User) (string, *domain.Session, error) {
	session := domain.NewSession(user.ID, user.Username, s.sessionTTL)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	token, err := s.signSessionToken(session)
	if err != nil {
		return "", nil, err
	}

	// Clean up expired sessions
	_ = s.sessionRepo.DeleteExpired(ctx)

	return token, session, nil
}

// Resolve maps a token back to its session. A missing, expired, malformed
// or forged token resolves to nil without error; errors are reserved for
// store failures.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, nil
	}

	// The token must agree with the stored binding
	if session.UserID != claims.UserID || session.Username != claims.Subject {
		return nil, nil
	}

	return session, nil
}

// EndSession revokes the session behind a token. Ending an unknown or
// already-ended session is a no-op.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	claims, err := s.parseSessionToken(token)
	if err != nil {
		return nil
	}

	err = s.sessionRepo.Delete(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *AuthService) signSessionToken(session *domain.Session) (string, error) {
	claims := SessionClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			Issuer:    "scribe",
		},
	}

	var signingMethod jwt.SigningMethod
	switch s.jwtAlgorithm {
	case "HS256":
		signingMethod = jwt.SigningMethodHS256
	case "HS384":
		signingMethod = jwt.SigningMethodHS384
	case "HS512":
		signingMethod = jwt.SigningMethodHS512
	default:
		signingMethod = jwt.SigningMethodHS256
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) parseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

// SessionClaims are the JWT claims sealed into a session token
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

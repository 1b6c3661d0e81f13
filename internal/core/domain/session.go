package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque token to an authenticated user. The binding is
// immutable for the session's lifetime; ending the session deletes the row.
type Session struct {
	ID        string    `db:"id"` // UUID
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func NewSession(userID int64, username string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnknownAuthor means a post references a user that does not exist.
	// The request gate should make this impossible; treat it as an
	// internal-consistency fault.
	ErrUnknownAuthor = errors.New("post author does not exist")
)

// InvalidInputError names the required fields that were missing or empty.
type InvalidInputError struct {
	Fields []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

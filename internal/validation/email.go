package validation

import (
	"errors"
	"strings"
)

// ValidateEmail checks that an email is present and within the RFC 5321
// length limit. Format is left to the client; uniqueness is enforced by the
// store.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("is required")
	}

	if len(email) > 254 {
		return errors.New("is too long (max 254 characters)")
	}

	return nil
}

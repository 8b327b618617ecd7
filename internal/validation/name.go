package validation

import (
	"errors"
	"strings"
)

// ValidateRequired rejects empty and whitespace-only values.
func ValidateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("is required")
	}
	return nil
}

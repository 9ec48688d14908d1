package validation

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizePhone converts a submitted phone number to canonical +7XXXXXXXXXX
// form. Accepted inputs: +7 / 7 / 8 prefixed eleven-digit numbers and bare
// ten-digit mobile numbers, with any punctuation. Anything else is rejected.
func NormalizePhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", ValidationError{Field: "phone", Message: "phone is required"}
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 11 && (d[0] == '7' || d[0] == '8'):
		return "+7" + d[1:], nil
	case len(d) == 10 && d[0] == '9':
		return "+7" + d, nil
	default:
		return "", ValidationError{Field: "phone", Message: "unrecognized phone format"}
	}
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > 255 {
		return ValidationError{Field: "name", Message: "name is too long"}
	}
	return nil
}

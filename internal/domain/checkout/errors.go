package checkout

import (
	"errors"
	"strings"
)

var (
	ErrEmailNotVerified = errors.New("please verify your email address before checking out")
	ErrEmptyCart        = errors.New("cart is empty")
)

// FieldError describes one rejected checkout form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected checkout form field
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid checkout: " + strings.Join(parts, "; ")
}

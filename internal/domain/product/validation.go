// internal/domain/product/validation.go
package product

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when the admin form is incomplete or inconsistent
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// ValidateInput checks the admin form: required text, at least one
// color, size and image, and consistent pricing
func ValidateInput(in *ProductInput) error {
	var fields []FieldError

	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("failed to validate product: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fieldPath(fe),
				Message: formatFieldError(fe),
			})
		}
	}

	if !in.Price.IsPositive() {
		fields = append(fields, FieldError{Field: "price", Message: "Price must be greater than zero"})
	}
	if in.SalePrice != nil {
		switch {
		case in.SalePrice.IsNegative():
			fields = append(fields, FieldError{Field: "sale_price", Message: "Sale price cannot be negative"})
		case !in.SalePrice.LessThan(in.Price):
			fields = append(fields, FieldError{Field: "sale_price", Message: "Sale price must be less than price"})
		}
	}
	if in.OnSale && in.SalePrice == nil {
		fields = append(fields, FieldError{Field: "sale_price", Message: "Products on sale need a sale price"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "url":
		return "Must be a valid URL"
	case "min":
		return fmt.Sprintf("At least %s required", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Validation failed on %s", fe.Tag())
	}
}

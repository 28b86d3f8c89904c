package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Countries the store ships to
var Countries = []string{"United States", "Canada", "United Kingdom", "Australia"}

// Request is the checkout form
type Request struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	ZipCode    string `json:"zip_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,oneof='United States' Canada 'United Kingdom' Australia"`
	CardNumber string `json:"card_number" validate:"required,credit_card"`
	CardName   string `json:"card_name" validate:"required,max=100"`
	ExpiryDate string `json:"expiry_date" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// normalize strips the separators people type into card numbers
func (r *Request) normalize() {
	r.CardNumber = strings.Map(func(c rune) rune {
		if c == ' ' || c == '-' {
			return -1
		}
		return c
	}, r.CardNumber)
	r.Email = strings.TrimSpace(r.Email)
	r.ExpiryDate = strings.TrimSpace(r.ExpiryDate)
}

// CardLast4 is the only part of the card number that is kept
func (r *Request) CardLast4() string {
	if len(r.CardNumber) < 4 {
		return r.CardNumber
	}
	return r.CardNumber[len(r.CardNumber)-4:]
}

func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return validExpiry(fl.Field().String(), now())
	})
	return v
}

// validExpiry accepts MM/YY cards that are valid through the end of that month
func validExpiry(value string, now time.Time) bool {
	month, year, ok := strings.Cut(value, "/")
	if !ok || len(month) != 2 || len(year) != 2 {
		return false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	expires := time.Date(2000+y, time.Month(m)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.UTC().Before(expires)
}

func validateRequest(v *validator.Validate, req *Request) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate checkout: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.Join(Countries, ", ")
	case "credit_card":
		return "is not a valid card number"
	case "card_expiry":
		return "must be a future date in MM/YY format"
	case "numeric":
		return "must contain digits only"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

package validation

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "mentorpay/internal/errors"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	currencyRegex = regexp.MustCompile(`^[a-z]{3}$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator struct {
	Errors []ValidationError
}

func New() *Validator {
	return &Validator{
		Errors: make([]ValidationError, 0),
	}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) Required(value, field string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) Email(value, field string) {
	v.Check(value == "" || emailRegex.MatchString(value), field, "must be a valid email address")
}

// Currency checks for a lowercase ISO 4217 code.
func (v *Validator) Currency(value, field string) {
	v.Check(currencyRegex.MatchString(value), field, "must be a 3-letter ISO 4217 code")
}

// Err returns nil when valid, else an InvalidArgument listing every failure.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Error()
	}
	return domainerrors.InvalidArgument(strings.Join(msgs, "; "))
}

package forms

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// FieldError is one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a form.
type ValidationError struct {
	Fields []FieldError
}

// Error joins the field messages.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets callers match domain.ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

// Field returns the message for the named field, or "".
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// instance returns the shared validator with the custom rules registered.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("form"); name != "" {
				return name
			}
			return f.Name
		})
		_ = v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
			return domain.CheckPassword(fl.Field().String()).Met()
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			c, ok := domain.FindCategory(domain.DefaultCategories(), fl.Field().String())
			return ok && c.ID != domain.CategoryAll
		})
		_ = v.RegisterValidation("file", func(fl validator.FieldLevel) bool {
			info, err := os.Stat(fl.Field().String())
			return err == nil && info.Mode().IsRegular()
		})
		validate = v
	})
	return validate
}

// Validate checks form against its struct tags. It returns a *ValidationError
// listing every failed field, or nil.
func Validate(form any) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// message renders one failed rule.
func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "strongpw":
		missing := domain.CheckPassword(fe.Value().(string)).Missing()
		return "Password needs " + strings.Join(missing, ", ")
	case "eqfield":
		return "Passwords do not match"
	case "eq":
		return "You must accept the terms and conditions"
	case "gte":
		return label + " must not be negative"
	case "category":
		return fmt.Sprintf("Unknown category %q", fe.Value())
	case "file":
		return fmt.Sprintf("Cannot read image %q", fe.Value())
	case "numeric", "min", "max":
		return label + " must be 10 to 15 digits"
	default:
		return label + " is invalid"
	}
}

// labels maps form field names to display names.
var labels = map[string]string{
	"email":       "Email",
	"password":    "Password",
	"confirm":     "Password confirmation",
	"firstName":   "First name",
	"lastName":    "Last name",
	"name":        "Name",
	"mobile":      "Mobile number",
	"category":    "Category",
	"description": "Description",
	"price":       "Price",
	"image":       "Profile image",
}

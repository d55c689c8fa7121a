// Package validation decodes JSON request bodies and validates them with
// go-playground/validator, reporting failures as a field → messages map
// keyed by the JSON field name.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/taskmaster-go/apperror"
)

// FailedMessage is the envelope message of every validation failure.
const FailedMessage = "Validation failed"

const bodyMessage = "The request body must be a valid JSON object."

// maxBodyBytes bounds request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// Validator wraps a configured *validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// maxbytes=N limits the UTF-8 encoded length of a string.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a validation AppError listing every
// failing field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInternalError("validation could not run", err)
	}

	fields := apperror.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return apperror.NewValidationError(FailedMessage, fields)
}

// label turns a json field name into the words used in messages.
func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("The %s field must not be greater than %s bytes.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "datetime":
		return fmt.Sprintf("The %s field must be a valid date (YYYY-MM-DD).", name)
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

// DecodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that field rules report what is missing. Malformed JSON and
// values of the wrong JSON type are validation failures.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	fields := apperror.FieldErrors{}
	if err == nil {
		if _, trailing := dec.Token(); errors.Is(trailing, io.EOF) {
			return nil
		}
		fields.Add("body", bodyMessage)
		return apperror.NewValidationError(FailedMessage, fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		name := label(typeErr.Field)
		if typeErr.Type != nil && typeErr.Type.Kind() == reflect.String {
			fields.Add(typeErr.Field, fmt.Sprintf("The %s field must be a string.", name))
		} else if typeErr.Type != nil && typeErr.Type.Kind() == reflect.Ptr && typeErr.Type.Elem().Kind() == reflect.String {
			fields.Add(typeErr.Field, fmt.Sprintf("The %s field must be a string.", name))
		} else {
			fields.Add(typeErr.Field, fmt.Sprintf("The %s field is invalid.", name))
		}
		return apperror.NewValidationError(FailedMessage, fields)
	}

	fields.Add("body", bodyMessage)
	return apperror.NewValidationError(FailedMessage, fields)
}

// NormalizeString trims s; nil and blank values become nil.
func NormalizeString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

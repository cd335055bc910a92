package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0] //nolint:gomnd
		if tag == "" {
			return f.Name
		}

		return tag
	})

	return v
}

type RequestError struct {
	msg    string
	fields map[string]string
}

func IsRequestError(err error) *RequestError {
	if err == nil {
		return nil
	}

	var reqErr *RequestError

	if errors.As(err, &reqErr) {
		return reqErr
	}

	return nil
}

func (e *RequestError) Error() string {
	return e.msg
}

func (e *RequestError) Fields() map[string]string {
	return e.fields
}

func decodeAndValidate(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return &RequestError{msg: "invalid request body", fields: nil}
	}

	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}

	return nil
}

func validationError(err error) *RequestError {
	var validationErrs validator.ValidationErrors

	if !errors.As(err, &validationErrs) {
		return &RequestError{msg: "validation failed", fields: nil}
	}

	fields := make(map[string]string, len(validationErrs))

	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = validationMessage(fieldErr)
	}

	return &RequestError{msg: "validation failed", fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	}

	return "is invalid"
}

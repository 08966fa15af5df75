package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "teamspace-backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
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

// validate runs struct validation and converts failures into field errors.
// fieldMessages overrides the default message for "field.tag" keys.
func validate(v *validator.Validate, req interface{}, fieldMessages map[string]string) apperrors.ValidationErrors {
	errs := apperrors.ValidationErrors{}
	err := v.Struct(req)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Add("__all__", apperrors.CodeInvalid, err.Error())
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		code := apperrors.CodeInvalid
		if fe.Tag() == "required" {
			code = apperrors.CodeRequired
		}
		message, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			message = defaultMessage(fe)
		}
		errs.Add(field, code, message)
	}
	return errs
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters.", fe.Param())
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	}
	return "Enter a valid value."
}

// asError returns nil for an empty set so callers can `return asError(errs)`
func asError(errs apperrors.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

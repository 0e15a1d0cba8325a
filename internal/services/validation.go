package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"stockmana/internal/apperr"
)

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

// validateRequest turns validator failures into a single user-facing message.
// Missing fields win over format problems so the client fixes them first;
// requiredMsg is what the client sees for those.
func validateRequest(v *validator.Validate, req any, requiredMsg string) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("invalid request", err)
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apperr.Validation(requiredMsg)
		}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return apperr.Validation("Please enter valid Email format")
	case "min":
		if strings.Contains(fe.Field(), "password") {
			return apperr.Validation(fmt.Sprintf("Password must be at least %s characters long", fe.Param()))
		}
		return apperr.Validation(fmt.Sprintf("%s must have at least %s items", fe.Field(), fe.Param()))
	case "max":
		return apperr.Validation(fmt.Sprintf("%s cannot contain more than %s characters", capitalize(fe.Field()), fe.Param()))
	default:
		return apperr.Validation(fmt.Sprintf("Invalid value for %s", fe.Field()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

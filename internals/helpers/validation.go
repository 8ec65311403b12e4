package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so field errors match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type normalizer interface{ Normalize() }

// BindAndValidate parses the JSON body into dst, trims it when dst has a
// Normalize method, and runs struct validation.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return ValidateStruct(dst)
}

// ValidateStruct converts validator errors into a field → message map.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.Validation("invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[name] = fe.Field() + " is required."
		case "email":
			fields[name] = "Invalid email format."
		case "min":
			fields[name] = fe.Field() + " must be at least " + fe.Param() + " characters."
		case "max":
			fields[name] = fe.Field() + " must be at most " + fe.Param() + " characters."
		case "oneof":
			fields[name] = fe.Field() + " must be one of " + fe.Param() + "."
		default:
			fields[name] = "Invalid format."
		}
	}
	return apperrors.ValidationFields("validation failed", fields)
}

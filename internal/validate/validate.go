// Package validate wraps go-playground/validator with the rules used by
// gripcheck inputs.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/gripcheck/internal/model"
)

// Validator checks tagged structs.
type Validator struct {
	v *validator.Validate
}

// New returns a validator with the gripcheck rules registered. Field names
// in messages come from json tags.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"department": func(fl validator.FieldLevel) bool {
			return model.Department(fl.Field().String()).Valid()
		},
		"category": func(fl validator.FieldLevel) bool {
			return model.Category(fl.Field().String()).Valid()
		},
		"level": func(fl validator.FieldLevel) bool {
			return model.ProductionLevel(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("registering validation " + tag + ": " + err.Error())
		}
	}

	return &Validator{v: v}
}

// Struct validates s and returns an error with a readable message.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "department":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), joinEnum(model.Departments))
	case "category":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), joinEnum(model.Categories))
	case "level":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), joinEnum(model.ProductionLevels))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

package application

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateInput reports the first failing field by its JSON name.
func validateInput(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.Invalid("%s is required", fe.Field())
	case "oneof":
		return domain.Invalid("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return domain.Invalid("%s is invalid", fe.Field())
	}
}

func defaultString(input *string, fallback string) string {
	if input == nil || strings.TrimSpace(*input) == "" {
		return fallback
	}
	return strings.TrimSpace(*input)
}

package validators

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/routes-report/pkg/enums"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"query", "json"} {
			if tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]; tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("claim_status", func(fl validator.FieldLevel) bool {
		return enums.ClaimStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("report_period", func(fl validator.FieldLevel) bool {
		return enums.ReportPeriod(fl.Field().String()).IsValid()
	})
	return v
}

// Struct validates dest and maps failures to a VALIDATION_ERROR with
// per-field messages.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldName(fieldErr)] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// fieldName collapses slice elements like status[1] onto the parameter name.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if idx := strings.IndexByte(name, '['); idx > 0 {
		return name[:idx]
	}
	return name
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	case "claim_status":
		return fmt.Sprintf("unknown claim status %q", fe.Value())
	case "report_period":
		return "must be one of: today, yesterday, tomorrow, monthly"
	}
	return "is invalid"
}

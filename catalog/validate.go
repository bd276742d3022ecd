package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
)

// inputValidator wraps go-playground/validator and converts its failures into bad
// request errors naming the offending JSON field.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		return models.FieldType(fl.Field().String()).Valid()
	})

	return &inputValidator{v: v}
}

func (iv *inputValidator) validate(s any) error {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.NewBadRequestErrorWithDetails("validation failed", err.Error())
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s %s", fieldPath(e), friendlyMessage(e)))
	}
	sort.Strings(messages)

	return errs.NewBadRequestErrorWithField("validation failed", fieldPath(validationErrs[0]), strings.Join(messages, "; "))
}

// fieldPath drops the struct name from the namespace: fields[1].name, not
// CreateInventoryInput.fields[1].name
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "fieldtype":
		return "must be one of: string number text boolean date link"
	default:
		return "is invalid"
	}
}

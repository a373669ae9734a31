// File: internal/common/validation.go
package common

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AccountEmailTag is the binding tag for the portal's email shape rule.
const AccountEmailTag = "account_email"

var accountEmailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,4}$`)

// Per-field messages for a missing value, keyed by form field name.
var requiredMessages = map[string]string{
	"firstName":       "Name is required.",
	"lastName":        "Name is required.",
	"email":           "Email is required.",
	"password":        "Password is required.",
	"confirmPassword": "Password confirmation is required.",
	"code":            "Confirmation code is required.",
}

// RegisterValidators installs the portal's custom tags on v and makes
// FieldError.Field() report the form field name.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation(AccountEmailTag, func(fl validator.FieldLevel) bool {
		return accountEmailPattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s validator: %w", AccountEmailTag, err)
	}
	return nil
}

// FormatValidationErrors converts a binding error into field → message.
// Errors that are not validator errors are reported under "form".
func FormatValidationErrors(err error) map[string]string {
	errorMap := make(map[string]string)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		errorMap["form"] = "The submitted form could not be read."
		return errorMap
	}
	for _, e := range errs {
		field := e.Field()
		if _, seen := errorMap[field]; seen {
			continue
		}
		var message string
		switch e.Tag() {
		case "required":
			message = requiredMessages[field]
			if message == "" {
				message = fmt.Sprintf("The %s field is required.", field)
			}
		case AccountEmailTag:
			message = "Invalid email address. E.g. example@email.com"
		case "eqfield":
			message = "Passwords do not match."
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}

package services

import (
	"errors"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/go-playground/validator/v10"
)

// ruleMessages maps "Struct.Field" to the message reported when any rule on
// that field fails. Each field is reported at most once.
var ruleMessages = map[string]string{
	"RegisterInput.Email":    "Invalid email",
	"RegisterInput.Password": "Password too short",
	"PostInput.Title":        "Title must be atleast 3 characters long",
	"PostInput.Content":      "Post content must be atleast 5 characters long",
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateStruct runs the struct rules and folds every failure into a single
// common.Validation error, in field declaration order.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.Internal(err)
	}

	seen := make(map[string]struct{}, len(fieldErrs))
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := ruleMessages[fe.StructNamespace()]
		if !ok {
			msg = fe.Error()
		}
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		details = append(details, msg)
	}

	return common.Validation(details...)
}

package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"user-management-api/model"

	"github.com/go-playground/validator/v10"
)

const updateCompletenessTag = "at_least_one_field"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "nickname", func(fl validator.FieldLevel) bool {
		return ValidateNickname(fl.Field().String()) == nil
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	})
	mustRegister(v, "profile_url", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		return ValidateProfileURL(&raw) == nil
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		update, ok := sl.Current().Interface().(model.UserUpdate)
		if !ok {
			return
		}
		if ValidateUpdateCompleteness(update) != nil {
			sl.ReportError(update, "body", "UserUpdate", updateCompletenessTag, "")
		}
	}, model.UserUpdate{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// ValidateStruct checks a payload against its schema tags. Field rules are
// evaluated before the cross-field completeness rule, and the first
// violation is returned as a *ValidationError.
func ValidateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs {
		if fe.Tag() != updateCompletenessTag {
			first = fe
			break
		}
	}
	return toValidationError(first)
}

func toValidationError(fe validator.FieldError) *ValidationError {
	value := fieldString(fe.Value())

	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Reason: "field required"}
	case "email":
		var vErr *ValidationError
		if !errors.As(ValidateEmail(value), &vErr) {
			vErr = &ValidationError{Reason: ErrInvalidEmail.Error(), Value: value, err: ErrInvalidEmail}
		}
		vErr.Field = fe.Field()
		return vErr
	case "nickname":
		return ruleError(fe.Field(), ValidateNickname(value), ErrNicknameCharset)
	case "password":
		return ruleError(fe.Field(), ValidatePassword(value), ErrPasswordTooShort)
	case "profile_url":
		return ruleError(fe.Field(), ValidateProfileURL(&value), ErrInvalidURL)
	case "max":
		return &ValidationError{Field: fe.Field(), Reason: fmt.Sprintf("must be at most %s characters", fe.Param())}
	case updateCompletenessTag:
		return &ValidationError{Field: fe.Field(), Reason: ErrEmptyUpdate.Error(), err: ErrEmptyUpdate}
	default:
		return &ValidationError{Field: fe.Field(), Reason: fmt.Sprintf("failed on the '%s' rule", fe.Tag())}
	}
}

// ruleError re-runs a rule to recover its specific reason. fallback covers
// the case where the tag and the rule disagree.
func ruleError(field string, err, fallback error) *ValidationError {
	if err == nil {
		err = fallback
	}
	return &ValidationError{Field: field, Reason: err.Error(), err: err}
}

func fieldString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}

// ValidateAndDecode decodes a JSON body into payload and validates it.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := ValidateStruct(payload); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return NewValidationAppError(vErr)
		}
		return NewAppError(http.StatusInternalServerError, "Could not validate request", err)
	}

	return nil
}

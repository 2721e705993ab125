package validator

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	global *validator.Validate

	emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex      = regexp.MustCompile(`^[\d\s\-+]+$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrInvalidEmail       = "Please enter a valid email address"
	ErrInvalidPhone       = "Please enter a valid phone number"
	ErrInvalidStatus      = "Status must be approved or rejected"
	ErrUnknownValidation  = "Unknown validation error"
)

// FieldError describes the first field that failed validation.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message + ": " + e.Field
}

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("emailshape", validateEmailShape)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("status", validateDecisionStatus)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// CleanString trims surrounding whitespace.
func CleanString(s string) string {
	return strings.TrimSpace(s)
}

// IsEmail reports whether s has the local@domain.tld shape accepted for registrants.
func IsEmail(s string) bool {
	return emailShapeRegex.MatchString(s)
}

func validateEmailShape(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateDecisionStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "approved" || s == "rejected"
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

// AsFieldError unwraps err into a *FieldError when it came from Validate.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return err
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "emailshape":
		msg = ErrInvalidEmail
	case "phone":
		msg = ErrInvalidPhone
	case "status":
		msg = ErrInvalidStatus
	case "oneof", "url":
		msg = ErrInvalidFormat
	default:
		msg = ErrUnknownValidation
	}
	return &FieldError{Field: ve.Field(), Tag: ve.Tag(), Message: msg}
}

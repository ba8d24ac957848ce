package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var (
	// PAN: 5 letters, 4 digits, 1 letter (Indian tax id)
	panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	// Indian postal code: 6 digits, no leading zero
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Validator wraps go-playground/validator with the portal's custom tags:
// inphone (Indian mobile number), pan, pincode.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom tags registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return IsValidIndianMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates a tagged request struct. On failure it returns a
// FieldErrors map so handlers render errors next to the offending field
// instead of substring-matching message text.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if ok := isInvalidValidation(err, &invalid); ok {
		return err
	}

	fields := make(FieldErrors)
	for _, fe := range err.(validator.ValidationErrors) {
		field := jsonFieldName(fe)
		fields[field] = append(fields[field], messageFor(fe))
	}
	return fields
}

// FieldErrors maps field names to validation messages
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return strings.Join(parts, "; ")
}

// IsValidIndianMobile reports whether the string parses as a valid IN
// mobile number (accepts bare 10-digit and +91-prefixed forms)
func IsValidIndianMobile(phone string) bool {
	parsed, err := phonenumbers.Parse(phone, "IN")
	if err != nil {
		return false
	}
	if !phonenumbers.IsValidNumberForRegion(parsed, "IN") {
		return false
	}
	numberType := phonenumbers.GetNumberType(parsed)
	return numberType == phonenumbers.MOBILE || numberType == phonenumbers.FIXED_LINE_OR_MOBILE
}

// NormalizeIndianMobile formats an IN mobile number as E.164
func NormalizeIndianMobile(phone string) (string, error) {
	parsed, err := phonenumbers.Parse(phone, "IN")
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumberForRegion(parsed, "IN") {
		return "", fmt.Errorf("not a valid Indian phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// IsValidPAN reports whether the string is a well-formed PAN
func IsValidPAN(pan string) bool {
	return panPattern.MatchString(pan)
}

// IsValidPincode reports whether the string is a well-formed Indian pincode
func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

func jsonFieldName(fe validator.FieldError) string {
	// Namespace is Struct.Field; take the leaf and snake_case it the way
	// the request structs tag their JSON
	return toSnake(fe.Field())
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "inphone":
		return "must be a valid Indian mobile number"
	case "pan":
		return "must be a valid PAN"
	case "pincode":
		return "must be a valid 6-digit pincode"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Underscore on a case boundary, keeping acronyms together
			if i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isInvalidValidation(err error, target **validator.InvalidValidationError) bool {
	if e, ok := err.(*validator.InvalidValidationError); ok {
		*target = e
		return true
	}
	return false
}

package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var seatCodeRgx = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_code", validateSeatCode)
	validator.RegisterValidation("show_date", validateShowDate)
	validator.RegisterValidation("phone", validatePhone)

	return validator
}

func validateSeatCode(fl validator.FieldLevel) bool {
	return seatCodeRgx.MatchString(fl.Field().String())
}

func validateShowDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()

	if len(phone) < 8 || len(phone) > 15 {
		return false
	}

	for i, ch := range phone {
		if ch == '+' && i == 0 {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}

	return true
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "seat_code":
		return "must be a seat code like A12"
	case "show_date":
		return "must be a calendar date formatted as 2006-01-02"
	case "phone":
		return "must be a phone number of 8 to 15 digits"
	default:
		return "is invalid"
	}
}

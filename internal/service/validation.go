package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/model"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// NewValidator returns a validator that reports fields by their json name and
// knows the booking-specific tags:
//
//	pickupdate  YYYY-MM-DD, not before today's date as seen by now
//	hhmm        24-hour HH:MM
func NewValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pickupdate", func(fl validator.FieldLevel) bool {
		_, ok := parsePickupDate(fl.Field().String(), now())
		return ok
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	return v
}

// parsePickupDate parses s as a calendar day and rejects days before the
// local date of now.  The result is midnight UTC of that day.
func parsePickupDate(s string, now time.Time) (time.Time, bool) {
	d, err := time.Parse(model.PickupDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return time.Time{}, false
	}
	return d, true
}

// validate runs v over req and converts failures to a VALIDATION_ERROR with
// one message per field.
func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("invalid request", nil)
	}
	return translateValidationErrors(verrs)
}

func translateValidationErrors(verrs validator.ValidationErrors) *apperror.AppError {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return apperror.Validation("validation failed", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "pickupdate":
		return "must be a date in YYYY-MM-DD format, not in the past"
	case "hhmm":
		return "must be a time in HH:MM 24-hour format"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

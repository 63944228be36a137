package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/linesmerrill/medication-reminder-api/models"
)

// TimeOfDayPattern matches the HH:MM strings stored in a medication's times
var TimeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Get returns the shared validator with the project's custom tags registered
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		if err := instance.RegisterValidation("timeofday", timeOfDay); err != nil {
			panic(fmt.Sprintf("register timeofday validation: %v", err))
		}
	})
	return instance
}

func timeOfDay(fl validator.FieldLevel) bool {
	return TimeOfDayPattern.MatchString(fl.Field().String())
}

// Struct validates v and converts any failure into a models.ErrValidation with a readable message
func Struct(v interface{}) error {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.ValidationError("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return models.ValidationError("%s", strings.Join(msgs, "; "))
}

// Medication validates a medication document before it is written
func Medication(m *models.Medication) error {
	if err := Struct(m); err != nil {
		return err
	}
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return models.ValidationError("endDate must not be before startDate")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := jsonName(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "timeofday":
		return fmt.Sprintf("%s must be a time in HH:MM format, got %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// jsonName turns "Medication.DaysOfWeek[2]" into "daysOfWeek[2]"
func jsonName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	if namespace == "" {
		return namespace
	}
	return strings.ToLower(namespace[:1]) + namespace[1:]
}

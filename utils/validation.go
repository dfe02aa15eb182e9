package utils

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"slotwise/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the domain rules on gin's binding validator.
// It panics if a rule cannot be registered.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("utils: gin binding validator is not go-playground/validator")
		}
		rules := map[string]validator.Func{
			"role": func(fl validator.FieldLevel) bool {
				return models.Role(fl.Field().String()).Valid()
			},
			"appointment_status": func(fl validator.FieldLevel) bool {
				_, ok := models.ParseAppointmentStatus(fl.Field().String())
				return ok
			},
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("utils: registering %q validator: %v", tag, err))
			}
		}
	})
}

// FormatValidationErrors renders binding failures as "field: rule" pairs.
func FormatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field != "" {
			field = strings.ToLower(field[:1]) + field[1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tasktrack-api/internal/domain"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. The first
// violation becomes the error message, wrapped as a domain validation error.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok || len(ve) == 0 {
			return fmt.Errorf("%v: %w", err, domain.ErrValidation)
		}
		fe := ve[0]
		return fmt.Errorf("field '%s' failed '%s': %w", fe.Field(), fe.Tag(), domain.ErrValidation)
	}
	return nil
}

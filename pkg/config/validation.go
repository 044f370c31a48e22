package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against its struct tags. It reports the
// first offending field with its namespace so users can find it in the file.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range errs {
		return fmt.Errorf("invalid value for %s: failed %q constraint", fe.Namespace(), fe.Tag())
	}
	return err
}

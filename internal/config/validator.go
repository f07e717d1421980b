package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := newValidator()

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, formatFieldError(e))
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", oneOf("", "debug", "info", "warn", "error", "fatal", "panic"))
	_ = validate.RegisterValidation("logformat", oneOf("", "console", "text", "json"))
	_ = validate.RegisterValidation("mode", oneOf("", ModeOnetime, ModeAutomated))
	_ = validate.RegisterValidation("llmprovider", oneOf("", "openai", "anthropic", "groq", "none"))
	_ = validate.RegisterValidation("compression", oneOf("", "zstd", "snappy", "gzip", "none"))

	return validate
}

func oneOf(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.ToLower(fl.Field().String())
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}

// formatFieldError renders e as "Section.Field: rule" with the offending value.
func formatFieldError(e validator.FieldError) string {
	fieldName := e.StructNamespace()
	if idx := strings.Index(fieldName, "."); idx >= 0 {
		fieldName = fieldName[idx+1:]
	}

	msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
	if e.Param() != "" {
		msg += fmt.Sprintf(" (expected: %s)", e.Param())
	}
	if e.Value() != nil && e.Value() != "" {
		msg += fmt.Sprintf(", actual: '%v'", e.Value())
	}
	return msg
}

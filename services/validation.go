package services

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// requiredName trims value and checks it is non-empty and at most max runes.
func requiredName(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	err := validation.Validate(trimmed,
		validation.Required.Error(field+" is required"),
		validation.RuneLength(0, max).Error(fmt.Sprintf("%s must be at most %d characters", field, max)),
	)
	if err != nil {
		return "", NewValidationError("%s", err.Error())
	}
	return trimmed, nil
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	return NewValidationError("%s", err.Error())
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type Validator struct {
	name   string // config struct name for error messages
	errors []error
}

// NewValidator creates a validator with the given config name.
func NewValidator(name string) *Validator {
	return &Validator{name: name}
}

// Positive validates that an int field is positive (> 0).
func (v *Validator) Positive(field string, value int) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d must be positive", v.name, field, value))
	}
	return v
}

// NonNegative validates that an int field is non-negative (>= 0).
func (v *Validator) NonNegative(field string, value int) *Validator {
	if value < 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d must be non-negative", v.name, field, value))
	}
	return v
}

// RangeInt validates that an int field is within the given range.
func (v *Validator) RangeInt(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", v.name, field, value, min, max))
	}
	return v
}

// MinDuration validates that a duration is at least the minimum.
func (v *Validator) MinDuration(field string, value, min time.Duration) *Validator {
	if value < min {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: duration %v is below minimum %v", v.name, field, value, min))
	}
	return v
}

// OneOf validates that a string field is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Errorf("%s.%s: value %q must be one of [%s]", v.name, field, value, strings.Join(allowed, ", ")))
	return v
}

// Err returns all collected validation errors joined, or nil.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return errors.Join(v.errors...)
}

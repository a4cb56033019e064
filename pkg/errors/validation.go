package errors

import (
	"math"
	"strings"
)

// ValidateFinite rejects NaN and infinite values. Geometry coming from a
// request body or a flag is never trusted to be well-formed.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be a finite number", field)
	}
	return nil
}

// ValidateNonNegative validates that v is finite and >= 0.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidGeometry, "%s cannot be negative (got %g)", field, v)
	}
	return nil
}

// ValidatePositive validates that v is finite and > 0.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidGeometry, "%s must be positive (got %g)", field, v)
	}
	return nil
}

// ValidateFraction validates that v lies in the open interval (0, 1).
//
// Fractions at either bound make the stagger remap divide by zero or hide the
// preview fade entirely, so both ends are rejected.
func ValidateFraction(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 || v >= 1 {
		return New(ErrCodeInvalidConfig, "%s must be between 0 and 1 exclusive (got %g)", field, v)
	}
	return nil
}

// ValidateChoice validates that v is one of the allowed names (case-insensitive).
func ValidateChoice(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "invalid %s %q (valid: %s)", field, v, strings.Join(allowed, ", "))
}

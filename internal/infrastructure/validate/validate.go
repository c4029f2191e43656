// package validate
package validate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field labels the first failing validator's error with the field name,
// e.g. "duration must be a number".
func Field(name string, validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				if !strings.HasPrefix(err.Error(), name) {
					return fmt.Errorf("%s %w", name, err)
				}
				return err
			}
		}
		return nil
	}
}

// First runs each check in order and returns the first error. Used where
// several fields are validated together and only one message may surface.
func First(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Required ensures the field is not empty. Whitespace counts as a value.
func Required() Validator {
	return func(v string) error {
		if v == "" {
			return errors.New("is required")
		}
		return nil
	}
}

// Number accepts anything strconv.ParseFloat accepts, except NaN and infinities.
func Number() Validator {
	return func(v string) error {
		if v == "" {
			return nil // let Required handle empty
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("must be a number")
		}
		return nil
	}
}

// NonNegativeInt accepts base-10 integers >= 0.
func NonNegativeInt() Validator {
	return func(v string) error {
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return errors.New("must be a non-negative integer")
		}
		return nil
	}
}

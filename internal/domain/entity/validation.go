package entity

import (
	"strconv"
)

// ValidateNumericID checks that raw consists of ASCII digits only.
// The value is forwarded to the upstream API verbatim, so no conversion happens here.
func ValidateNumericID(field, raw string) error {
	if raw == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return &ValidationError{Field: field, Message: field + " must be numeric"}
		}
	}
	return nil
}

// ParseInt parses raw as a base-10 integer.
func ParseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Message: field + " must be an integer"}
	}
	return v, nil
}

// ParsePositiveInt parses raw as an integer greater than zero.
func ParsePositiveInt(field, raw string) (int, error) {
	v, err := ParseInt(field, raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, &ValidationError{Field: field, Message: field + " must be greater than zero"}
	}
	return v, nil
}

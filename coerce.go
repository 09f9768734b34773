package jmux

import (
	"strconv"
)

// coerce converts a fully lexed raw token into the value the declared
// field kind expects. For strings, raw is already escape-decoded; for
// every other kind raw is the literal token text as it appeared on
// the wire (e.g. "-12", "3.5e10", "true", "null").
func coerce(field *FieldSchema, raw string) (interface{}, error) {
	switch field.kind {
	case KindString:
		return raw, nil

	case KindEnumerated:
		if !field.isEnumMember(raw) {
			return nil, &InvalidEnumValueError{
				Field:   field.name,
				Value:   raw,
				Members: field.enumMembers,
			}
		}
		return raw, nil

	case KindBoolean:
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
		}

	case KindNull:
		if raw != "null" {
			return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
		}
		return nil, nil

	case KindInteger:
		if hasLeadingZero(raw) {
			return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return nil, &NumericOverflowError{Field: field.name, Token: raw}
			}
			return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
		}
		return v, nil

	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
		}
		return v, nil

	default:
		return nil, &TypeMismatchError{Field: field.name, Declared: field.kind, Token: raw}
	}
}

// hasLeadingZero reports whether raw's digit run starts with '0'
// followed by another digit, e.g. "007" or "-007". The bare literal
// "0" (or "-0") is not a leading zero.
func hasLeadingZero(raw string) bool {
	digits := raw
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	return len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9'
}

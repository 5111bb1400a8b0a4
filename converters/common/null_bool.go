package common

import (
	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// BoolToNullBool converts a bool to a valid null.Bool.
func BoolToNullBool(src any) (any, error) {
	const op errors.Op = "converters.common.BoolToNullBool"
	srcVal, ok := src.(bool)
	if !ok {
		return null.Bool{}, errors.New(op).Errorf("Given parameter not a bool, got %T", src)
	}
	return null.BoolFrom(srcVal), nil
}

// NullBoolToBool converts a null.Bool to a bool; null becomes false.
func NullBoolToBool(src any) (any, error) {
	const op errors.Op = "converters.common.NullBoolToBool"
	switch v := src.(type) {
	case null.Bool:
		return v.Valid && v.Bool, nil
	case bool:
		return v, nil
	}
	return false, errors.New(op).Errorf("Given parameter not a bool or null.Bool, got %T", src)
}

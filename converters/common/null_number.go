package common

import (
	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
)

// Int64ToNullInt64 converts any integer, or a whole float64 as decoded from JSON, to a
// valid null.Int64.
func Int64ToNullInt64(src any) (any, error) {
	const op errors.Op = "converters.common.Int64ToNullInt64"
	n, err := converters.CheckInt64(op, src)
	if err != nil {
		return null.Int64{}, err
	}
	return null.Int64From(n), nil
}

// NullInt64ToInt64 converts a null.Int64 to an int64; null becomes 0.
func NullInt64ToInt64(src any) (any, error) {
	const op errors.Op = "converters.common.NullInt64ToInt64"
	if v, ok := src.(null.Int64); ok {
		if !v.Valid {
			return int64(0), nil
		}
		return v.Int64, nil
	}
	return converters.CheckInt64(op, src)
}

// IntToNullInt converts an int to a valid null.Int.
func IntToNullInt(src any) (any, error) {
	const op errors.Op = "converters.common.IntToNullInt"
	v, ok := src.(int)
	if !ok {
		return null.Int{}, errors.New(op).Errorf("Given parameter not a int, got %T", src)
	}
	return null.IntFrom(v), nil
}

// NullIntToInt converts a null.Int to an int; null becomes 0.
func NullIntToInt(src any) (any, error) {
	const op errors.Op = "converters.common.NullIntToInt"
	if v, ok := src.(null.Int); ok {
		if !v.Valid {
			return 0, nil
		}
		return v.Int, nil
	}
	return 0, errors.New(op).Errorf("Given parameter not a null.Int, got %T", src)
}

// Float64ToNullFloat64 converts a float or integer to a valid null.Float64.
func Float64ToNullFloat64(src any) (any, error) {
	const op errors.Op = "converters.common.Float64ToNullFloat64"
	f, err := converters.CheckFloat64(op, src)
	if err != nil {
		return null.Float64{}, err
	}
	return null.Float64From(f), nil
}

// NullFloat64ToFloat64 converts a null.Float64 to a float64; null becomes 0.
func NullFloat64ToFloat64(src any) (any, error) {
	const op errors.Op = "converters.common.NullFloat64ToFloat64"
	if v, ok := src.(null.Float64); ok {
		if !v.Valid {
			return float64(0), nil
		}
		return v.Float64, nil
	}
	return converters.CheckFloat64(op, src)
}

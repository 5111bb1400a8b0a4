package converters

import (
	"math"
	"time"

	"github.com/Station-Manager/errors"
)

// Wrap records err as the cause of a failure in op. The message is msg followed by the
// text of err, which a DetailedError does not print on its own.
func Wrap(op errors.Op, msg string, err error) error {
	return errors.New(op).Err(err).Msg(msg + ": " + err.Error())
}

// CheckString asserts src is a non-empty string.
func CheckString(op errors.Op, src any) (string, error) {
	srcVal, ok := src.(string)
	if !ok {
		return "", errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	if srcVal == "" {
		return "", errors.New(op).Msg(ErrMsgEmptyString)
	}
	return srcVal, nil
}

// CheckFloat64 asserts src is a float or integer number and returns it as a float64.
func CheckFloat64(op errors.Op, src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	}
	if n, err := CheckInt64(op, src); err == nil {
		return float64(n), nil
	}
	return 0, errors.New(op).Errorf("Given parameter not a float64, got %T", src)
}

// CheckInt64 asserts src is an integer (of any width) or a float64 holding a whole
// number, as produced by JSON decoding.
func CheckInt64(op errors.Op, src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			break
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			break
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
			return int64(v), nil
		}
		return -1, errors.New(op).Errorf("Given float64 %v is not a whole number", v)
	}
	return -1, errors.New(op).Errorf("Given parameter not a int64, got %T", src)
}

// CheckTime asserts src is a time.Time.
func CheckTime(op errors.Op, src any) (time.Time, error) {
	srcVal, ok := src.(time.Time)
	if !ok {
		return time.Time{}, errors.New(op).Errorf("Given parameter not a time.Time, got %T", src)
	}
	return srcVal, nil
}

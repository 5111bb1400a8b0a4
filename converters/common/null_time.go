package common

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
)

// TimeToNullTime converts a time.Time to a null.Time. The zero time is null.
func TimeToNullTime(src any) (any, error) {
	const op errors.Op = "converters.common.TimeToNullTime"
	srcVal, err := converters.CheckTime(op, src)
	if err != nil {
		return null.Time{}, err
	}
	if srcVal.IsZero() {
		return null.Time{}, nil
	}
	return null.TimeFrom(srcVal), nil
}

// NullTimeToTime converts a null.Time to a time.Time; null becomes the zero time.
func NullTimeToTime(src any) (any, error) {
	const op errors.Op = "converters.common.NullTimeToTime"
	if nullTime, ok := src.(null.Time); ok {
		if !nullTime.Valid {
			return time.Time{}, nil
		}
		return nullTime.Time, nil
	}
	return converters.CheckTime(op, src)
}

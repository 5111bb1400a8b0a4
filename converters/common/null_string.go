package common

import (
	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
)

// StringToNullString converts a string to a null.String. The empty string is null.
func StringToNullString(src any) (any, error) {
	const op errors.Op = "converters.common.StringToNullString"
	srcVal, ok := src.(string)
	if !ok {
		return null.String{}, errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	if srcVal == "" {
		return null.String{}, nil
	}
	return null.StringFrom(srcVal), nil
}

// NullStringToString converts a null.String to a string; null becomes "".
func NullStringToString(src any) (any, error) {
	const op errors.Op = "converters.common.NullStringToString"
	if nullStr, ok := src.(null.String); ok {
		if !nullStr.Valid {
			return "", nil
		}
		return nullStr.String, nil
	}
	srcVal, err := converters.CheckString(op, src)
	if err != nil {
		return "", converters.Wrap(op, converters.ErrMsgBadParameter, err)
	}
	return srcVal, nil
}

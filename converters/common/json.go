package common

import (
	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

// MapToNullJSON marshals a map into a null.JSON. A nil or empty map is null.
func MapToNullJSON(src any) (any, error) {
	const op errors.Op = "converters.common.MapToNullJSON"
	m, ok := src.(map[string]any)
	if !ok {
		return null.JSON{}, errors.New(op).Errorf("Given parameter not a map[string]any, got %T", src)
	}
	if len(m) == 0 {
		return null.JSON{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return null.JSON{}, converters.Wrap(op, converters.ErrMsgBadDocument, err)
	}
	return null.JSONFrom(b), nil
}

// NullJSONToMap unmarshals a null.JSON object; null becomes a nil map.
func NullJSONToMap(src any) (any, error) {
	const op errors.Op = "converters.common.NullJSONToMap"
	v, ok := src.(null.JSON)
	if !ok {
		return nil, errors.New(op).Errorf("Given parameter not a null.JSON, got %T", src)
	}
	if !v.Valid || len(v.JSON) == 0 {
		return map[string]any(nil), nil
	}
	return unmarshalObject(op, v.JSON)
}

// MapToTypesJSON marshals a map into a sqlboiler types.JSON. A nil or empty map gives nil.
func MapToTypesJSON(src any) (any, error) {
	const op errors.Op = "converters.common.MapToTypesJSON"
	m, ok := src.(map[string]any)
	if !ok {
		return types.JSON(nil), errors.New(op).Errorf("Given parameter not a map[string]any, got %T", src)
	}
	if len(m) == 0 {
		return types.JSON(nil), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return types.JSON(nil), converters.Wrap(op, converters.ErrMsgBadDocument, err)
	}
	return types.JSON(b), nil
}

// TypesJSONToMap unmarshals a sqlboiler types.JSON object.
func TypesJSONToMap(src any) (any, error) {
	const op errors.Op = "converters.common.TypesJSONToMap"
	v, ok := src.(types.JSON)
	if !ok {
		return nil, errors.New(op).Errorf("Given parameter not a types.JSON, got %T", src)
	}
	if len(v) == 0 {
		return map[string]any(nil), nil
	}
	return unmarshalObject(op, v)
}

// NullJSONToTypesJSON copies the payload of a null.JSON; null gives nil.
func NullJSONToTypesJSON(src any) (any, error) {
	const op errors.Op = "converters.common.NullJSONToTypesJSON"
	v, ok := src.(null.JSON)
	if !ok {
		return types.JSON(nil), errors.New(op).Errorf("Given parameter not a null.JSON, got %T", src)
	}
	if !v.Valid {
		return types.JSON(nil), nil
	}
	return types.JSON(append([]byte(nil), v.JSON...)), nil
}

// TypesJSONToNullJSON copies a types.JSON payload into a null.JSON; empty is null.
func TypesJSONToNullJSON(src any) (any, error) {
	const op errors.Op = "converters.common.TypesJSONToNullJSON"
	v, ok := src.(types.JSON)
	if !ok {
		return null.JSON{}, errors.New(op).Errorf("Given parameter not a types.JSON, got %T", src)
	}
	if len(v) == 0 {
		return null.JSON{}, nil
	}
	return null.JSONFrom(append([]byte(nil), v...)), nil
}

func unmarshalObject(op errors.Op, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, converters.Wrap(op, converters.ErrMsgBadDocument, err)
	}
	return out, nil
}

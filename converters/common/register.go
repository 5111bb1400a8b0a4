// Package common bridges plain Go values and the nullable column types of
// aarondl/null and sqlboiler. The functions have the func(src any) (any, error) shape
// of field converters, so they can be attached to a single field with
// MappingStage.WithFieldConverter, or installed for every field of a pair with Register.
package common

import (
	"time"

	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
)

// Register installs the null type converters on r. Combined with the built-in
// converters this also resolves two-step pairs such as string to null.Int64.
func Register(r *converters.Registry) {
	r.Register(
		converters.FromFunc[string, null.String](StringToNullString),
		converters.FromFunc[null.String, string](NullStringToString),
		converters.FromFunc[bool, null.Bool](BoolToNullBool),
		converters.FromFunc[null.Bool, bool](NullBoolToBool),
		converters.FromFunc[time.Time, null.Time](TimeToNullTime),
		converters.FromFunc[null.Time, time.Time](NullTimeToTime),
		converters.FromFunc[int64, null.Int64](Int64ToNullInt64),
		converters.FromFunc[null.Int64, int64](NullInt64ToInt64),
		converters.FromFunc[int, null.Int](IntToNullInt),
		converters.FromFunc[null.Int, int](NullIntToInt),
		converters.FromFunc[float64, null.Float64](Float64ToNullFloat64),
		converters.FromFunc[null.Float64, float64](NullFloat64ToFloat64),
		converters.FromFunc[map[string]any, null.JSON](MapToNullJSON),
		converters.FromFunc[null.JSON, map[string]any](NullJSONToMap),
		converters.FromFunc[map[string]any, types.JSON](MapToTypesJSON),
		converters.FromFunc[types.JSON, map[string]any](TypesJSONToMap),
		converters.FromFunc[null.JSON, types.JSON](NullJSONToTypesJSON),
		converters.FromFunc[types.JSON, null.JSON](TypesJSONToNullJSON),
	)
}

// Package mapper converts values between types and copies, merges and maps data
// between structs, maps and slices.
//
// # Conversion
//
// Convert runs a single value through the converter registry:
//
//	n, err := mapper.Convert("10*60").ToInt()          // 600
//	on, err := mapper.Convert("yes").DefaultTo(false).ToBool()
//	lvl, err := mapper.ConvertTo[Level]("warn")         // registered enum, keyword matched
//
// Lookups try an exact registry entry first, then enum tables, String methods, named
// basic types, element-wise slice conversion, interface and chained registry entries
// (see converters.MaxHops), and finally plain reflect conversion.
//
// # Mapping
//
// A mapping starts with a semantic and is committed with To or ToType:
//
//	Copy      shallow copy, nested values shared
//	DeepCopy  nested structs, maps and slices duplicated; cycles preserved
//	Merge     deep copy skipping nil and invalid null.* source values; slices appended
//	Map       deep copy matching fields by keyword (FirstName ~ first_name)
//	MergeMap  merge matching fields by keyword
//	FlatCopy  nested values to and from map[string]X with dotted keys
//	Clone     deep copy into a new value of the source type
//
//	dto, err := mapper.Map(user).Filter("-Password").ToType(reflect.TypeOf(UserDTO{}))
//	_, err = mapper.Merge(patch).To(&user)
//
// Fields tagged `mapping:"-"` or `mapping:"ignore"` are never read or written. Embedded
// structs are flattened. Errors name the failing field with a *MappingError.
//
// # AdditionalData
//
// A struct field named AdditionalData of type null.JSON, types.JSON or map[string]any
// receives the non-zero source fields that have no counterpart in the target. An
// AdditionalData field on the source fills target fields not set directly.
//
// # Thread Safety
//
// A Mapper, the converter registries and the property caches are safe for concurrent
// use. Stages are not; create one per mapping.
package mapper

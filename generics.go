package mapper

import "reflect"

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// MapTo commits s into a new T.
func MapTo[T any](s *MappingStage) (T, error) {
	var zero T
	out, err := s.ToType(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

// Into commits s into *dst.
func Into[T any](s *MappingStage, dst *T) error {
	_, err := s.To(dst)
	return err
}

// Cloned returns a deep copy of src made by the default mapper.
func Cloned[T any](src T) (T, error) { return MapTo[T](Clone(src)) }

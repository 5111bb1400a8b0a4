package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNilDefault is returned by ConvertStage commits after DefaultTo(nil).
	ErrNilDefault = errors.New("default value must not be nil")
	// ErrNilSource is returned when a mapping stage is committed without a source.
	ErrNilSource = errors.New("source must not be nil")
	// ErrInvalidTarget is returned when a commit target cannot receive values.
	ErrInvalidTarget = errors.New("target must be a non-nil pointer, map or slice")
)

// NoConverterError reports that no converter exists between two types.
type NoConverterError struct {
	From reflect.Type
	To   reflect.Type
}

func (e *NoConverterError) Error() string {
	return fmt.Sprintf("no converter found from %v to %v", e.From, e.To)
}

// ConversionError reports a converter that failed on a value.
type ConversionError struct {
	From reflect.Type
	To   reflect.Type
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %v to %v: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// UnsupportedError reports a structural conversion the mapper cannot perform, such as
// filling an interface-typed target that has no concrete implementation.
type UnsupportedError struct {
	From   reflect.Type
	To     reflect.Type
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cannot map %v to %v: %s", e.From, e.To, e.Reason)
}

// MappingError identifies the field that failed during a mapping.
type MappingError struct {
	Path       string
	SourceType reflect.Type
	TargetType reflect.Type
	Err        error
}

func (e *MappingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mapping %v to %v: %v", e.SourceType, e.TargetType, e.Err)
	}
	return fmt.Sprintf("mapping %v to %v: field %s: %v", e.SourceType, e.TargetType, e.Path, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

func joinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

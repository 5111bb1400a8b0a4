// Package converters holds the type-conversion registry used by the mapper.
//
// A TypeConverter translates values of one type (From) into another (To). A Registry
// stores at most one converter per (From, To) pair and resolves conversions that have
// no direct entry through interface-typed entries and through short chains of
// registered converters ("hops").
//
//	reg := converters.Default().Child()
//	reg.Register(converters.New(func(c Celsius) (Fahrenheit, error) {
//	    return Fahrenheit(c*9/5 + 32), nil
//	}))
//
// Default returns the process-wide registry populated with the built-in converters.
package converters

import (
	"reflect"

	"github.com/Station-Manager/errors"
)

// Func is the untyped form of a conversion. hint is nil unless the caller supplied one.
type Func func(src any, hint any) (any, error)

// TypeConverter converts values of type From into values of type To.
// Two converters are considered the same registry entry when their Pair is equal.
type TypeConverter struct {
	from reflect.Type
	to   reflect.Type
	fn   Func
	hops int
}

// New builds a converter from a typed function.
func New[F, T any](fn func(F) (T, error)) *TypeConverter {
	return NewWithHint(func(src F, _ any) (T, error) { return fn(src) })
}

// NewWithHint builds a converter from a typed function that also receives the hint.
func NewWithHint[F, T any](fn func(F, any) (T, error)) *TypeConverter {
	from, to := reflect.TypeFor[F](), reflect.TypeFor[T]()
	return &TypeConverter{from: from, to: to, hops: 1, fn: func(src, hint any) (any, error) {
		const op errors.Op = "converters.TypeConverter.Convert"
		s, ok := src.(F)
		if !ok && (src != nil || !nilable(from)) {
			return nil, errors.New(op).Errorf("Given parameter not a %v, got %T", from, src)
		}
		out, err := fn(s, hint)
		if err != nil {
			return nil, err
		}
		return out, nil
	}}
}

// FromFunc wraps a plain func(src any) (any, error), the shape used for field-level
// converters, as a converter for the pair (F, T).
func FromFunc[F, T any](fn func(src any) (any, error)) *TypeConverter {
	return NewFunc(reflect.TypeFor[F](), reflect.TypeFor[T](), func(src, _ any) (any, error) { return fn(src) })
}

// NewFunc builds a converter for an explicit type pair.
func NewFunc(from, to reflect.Type, fn Func) *TypeConverter {
	return &TypeConverter{from: from, to: to, fn: fn, hops: 1}
}

// From returns the source type.
func (c *TypeConverter) From() reflect.Type { return c.from }

// To returns the target type.
func (c *TypeConverter) To() reflect.Type { return c.to }

// Hops returns the number of direct converters composed into c.
func (c *TypeConverter) Hops() int { return c.hops }

// Pair returns the registry key of c.
func (c *TypeConverter) Pair() Pair { return Pair{From: c.from, To: c.to} }

// Convert converts src without a hint.
func (c *TypeConverter) Convert(src any) (any, error) { return c.fn(src, nil) }

// ConvertWithHint converts src passing hint to the conversion function.
func (c *TypeConverter) ConvertWithHint(src, hint any) (any, error) { return c.fn(src, hint) }

// Chain returns a converter applying c and then next. The hint only reaches next.
// A nil intermediate result short-circuits to nil.
func (c *TypeConverter) Chain(next *TypeConverter) *TypeConverter {
	first, second := c.fn, next.fn
	return &TypeConverter{
		from: c.from,
		to:   next.to,
		hops: c.hops + next.hops,
		fn: func(src, hint any) (any, error) {
			mid, err := first(src, nil)
			if err != nil || isNil(mid) {
				return nil, err
			}
			return second(mid, hint)
		},
	}
}

func (c *TypeConverter) String() string {
	return c.from.String() + " -> " + c.to.String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return nilable(rv.Type()) && rv.IsNil()
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

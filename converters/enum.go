package converters

import (
	"fmt"
	"reflect"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/mapper/keyword"
)

// Hint is the type of the hints understood by the built-in converters.
type Hint string

// HintStrict makes name based conversions (enums) require an exact name match
// instead of the default keyword match.
const HintStrict Hint = "strict"

// Enum is the set of named constants of a type.
type Enum struct {
	Type   reflect.Type
	names  []string
	values []any
}

// RegisterEnum records values as the constants of type E on r. The name of each
// constant is its fmt.Sprint form, so types with a String method are named by it.
func RegisterEnum[E comparable](r *Registry, values ...E) *Enum {
	e := &Enum{Type: reflect.TypeFor[E]()}
	for _, v := range values {
		e.names = append(e.names, fmt.Sprint(v))
		e.values = append(e.values, v)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old := *r.enums.Load()
	next := make(map[reflect.Type]*Enum, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[e.Type] = e
	r.enums.Store(&next)
	r.gen.Add(1)
	return e
}

// Enum returns the constants registered for t on r or its ancestors.
func (r *Registry) Enum(t reflect.Type) (*Enum, bool) {
	for x := r; x != nil; x = x.parent {
		if e, ok := (*x.enums.Load())[t]; ok {
			return e, true
		}
	}
	return nil, false
}

// Names returns the constant names in registration order.
func (e *Enum) Names() []string { return append([]string(nil), e.names...) }

// Parse returns the constant called name. With strict set only an exact match counts;
// otherwise names are compared in keyword form, so "redColor" finds RED_COLOR.
func (e *Enum) Parse(name string, strict bool) (any, error) {
	const op errors.Op = "converters.Enum.Parse"
	for i, n := range e.names {
		if n == name {
			return e.values[i], nil
		}
	}
	if !strict {
		kw := keyword.Of(name)
		for i, n := range e.names {
			if keyword.Of(n) == kw {
				return e.values[i], nil
			}
		}
	}
	return nil, errors.New(op).Errorf("%s: %q is not a constant of %v", ErrMsgNoEnumConst, name, e.Type)
}

// Converter returns a string to enum converter. The HintStrict hint selects exact matching.
func (e *Enum) Converter() *TypeConverter {
	return NewFunc(reflect.TypeFor[string](), e.Type, func(src, hint any) (any, error) {
		const op errors.Op = "converters.Enum.Converter"
		s, ok := src.(string)
		if !ok {
			return nil, errors.New(op).Errorf("Given parameter not a string, got %T", src)
		}
		return e.Parse(s, hint == HintStrict)
	})
}

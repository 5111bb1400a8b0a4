package mapper

import (
	"fmt"
	"iter"
	"reflect"
	"time"

	"github.com/Station-Manager/mapper/converters"
	"github.com/Station-Manager/mapper/property"
)

var (
	seqType    = reflect.TypeFor[iter.Seq[any]]()
	stringType = reflect.TypeFor[string]()
	builtins   = map[reflect.Kind]reflect.Type{
		reflect.Bool:    reflect.TypeFor[bool](),
		reflect.Int:     reflect.TypeFor[int](),
		reflect.Int8:    reflect.TypeFor[int8](),
		reflect.Int16:   reflect.TypeFor[int16](),
		reflect.Int32:   reflect.TypeFor[int32](),
		reflect.Int64:   reflect.TypeFor[int64](),
		reflect.Uint:    reflect.TypeFor[uint](),
		reflect.Uint8:   reflect.TypeFor[uint8](),
		reflect.Uint16:  reflect.TypeFor[uint16](),
		reflect.Uint32:  reflect.TypeFor[uint32](),
		reflect.Uint64:  reflect.TypeFor[uint64](),
		reflect.Float32: reflect.TypeFor[float32](),
		reflect.Float64: reflect.TypeFor[float64](),
		reflect.String:  stringType,
	}
)

// conversion is one configured run of the conversion pipeline.
type conversion struct {
	custom *converters.Registry // consulted before base; may be nil
	base   *converters.Registry
	hint   any
	strict bool
}

func (c *conversion) exact(from, to reflect.Type) (*converters.TypeConverter, bool) {
	if c.custom != nil {
		if tc, ok := c.custom.Get(from, to); ok {
			return tc, true
		}
	}
	return c.base.Get(from, to)
}

func (c *conversion) resolve(from, to reflect.Type) (*converters.TypeConverter, bool) {
	if c.custom != nil {
		if tc, ok := c.custom.Resolve(from, to); ok {
			return tc, true
		}
	}
	return c.base.Resolve(from, to)
}

func (c *conversion) enum(t reflect.Type) (*converters.Enum, bool) {
	if c.custom != nil {
		if e, ok := c.custom.Enum(t); ok {
			return e, true
		}
	}
	return c.base.Enum(t)
}

func (c *conversion) apply(tc *converters.TypeConverter, v any) (any, error) {
	hint := c.hint
	if hint == nil && c.strict {
		hint = converters.HintStrict
	}
	if hint != nil {
		return tc.ConvertWithHint(v, hint)
	}
	return tc.Convert(v)
}

// value converts the non-nil v to type to. ok is false when nothing applies.
// Lookups run in this order: exact registry entries, enum tables, String methods,
// named basic types via their builtin kind, element-wise slice and array conversion,
// sequences, interface and chained registry entries, and finally reflect conversion.
func (c *conversion) value(v any, to reflect.Type) (out any, ok bool, err error) {
	from := reflect.TypeOf(v)
	if from.AssignableTo(to) {
		return v, true, nil
	}
	if tc, found := c.exact(from, to); found {
		out, err = c.apply(tc, v)
		return out, true, err
	}
	if e, found := c.enum(to); found && !(isNumber(from.Kind()) && isNumber(to.Kind())) {
		if s, found := c.text(v, from); found {
			out, err = c.apply(e.Converter(), s)
			return out, true, err
		}
	}
	if to.Kind() == reflect.String {
		switch x := v.(type) {
		case fmt.Stringer:
			return reflect.ValueOf(x.String()).Convert(to).Interface(), true, nil
		case error:
			return reflect.ValueOf(x.Error()).Convert(to).Interface(), true, nil
		}
	}
	if out, ok, err = c.named(v, from, to); ok || err != nil {
		return out, ok, err
	}
	if out, ok, err = c.elements(v, from, to); ok || err != nil {
		return out, ok, err
	}
	if to == seqType {
		if seq, found := sequence(v); found {
			return seq, true, nil
		}
	}
	if tc, found := c.resolve(from, to); found {
		out, err = c.apply(tc, v)
		return out, true, err
	}
	if property.Convertible(from, to) {
		return reflect.ValueOf(v).Convert(to).Interface(), true, nil
	}
	return nil, false, nil
}

// text renders v as the name of an enum constant.
func (c *conversion) text(v any, from reflect.Type) (string, bool) {
	if from.Kind() == reflect.String {
		return reflect.ValueOf(v).String(), true
	}
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String(), true
	case []byte:
		return string(x), true
	}
	if tc, ok := c.exact(from, stringType); ok {
		if out, err := tc.Convert(v); err == nil {
			if s, ok := out.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// named converts between named basic types (type Level int) through their builtin kind.
func (c *conversion) named(v any, from, to reflect.Type) (any, bool, error) {
	if bt := builtins[from.Kind()]; bt != nil && bt != from {
		return c.value(reflect.ValueOf(v).Convert(bt).Interface(), to)
	}
	if bt := builtins[to.Kind()]; bt != nil && bt != to {
		out, ok, err := c.value(v, bt)
		if !ok || err != nil || out == nil {
			return out, ok, err
		}
		rv := reflect.ValueOf(out)
		if !rv.Type().ConvertibleTo(to) {
			return nil, false, nil
		}
		return rv.Convert(to).Interface(), true, nil
	}
	return nil, false, nil
}

// elements converts slices and arrays element by element. A target array shorter than
// the source is an error.
func (c *conversion) elements(v any, from, to reflect.Type) (any, bool, error) {
	if !isList(from.Kind()) || !isList(to.Kind()) {
		return nil, false, nil
	}
	src := reflect.ValueOf(v)
	if from.Kind() == reflect.Slice && src.IsNil() {
		return reflect.Zero(to).Interface(), true, nil
	}
	n := src.Len()
	var out reflect.Value
	if to.Kind() == reflect.Slice {
		out = reflect.MakeSlice(to, n, n)
	} else {
		if n > to.Len() {
			return nil, true, fmt.Errorf("%d elements do not fit in %v", n, to)
		}
		out = reflect.New(to).Elem()
	}
	et := to.Elem()
	for i := 0; i < n; i++ {
		x := src.Index(i).Interface()
		if isNilValue(x) {
			continue
		}
		r, ok, err := c.value(x, et)
		if err != nil {
			return nil, true, fmt.Errorf("element %d: %w", i, err)
		}
		if !ok {
			return nil, false, nil
		}
		if r == nil {
			continue
		}
		rv, ok := fit(reflect.ValueOf(r), et)
		if !ok {
			return nil, false, nil
		}
		out.Index(i).Set(rv)
	}
	return out.Interface(), true, nil
}

func sequence(v any) (iter.Seq[any], bool) {
	rv := reflect.ValueOf(v)
	if !isList(rv.Kind()) {
		return nil, false
	}
	return func(yield func(any) bool) {
		for i := 0; i < rv.Len(); i++ {
			if !yield(rv.Index(i).Interface()) {
				return
			}
		}
	}, true
}

// fit returns v as a value of type t, if it is assignable or convertible.
func fit(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if v.Type().AssignableTo(t) {
		return v, true
	}
	if property.Convertible(v.Type(), t) {
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

func isList(k reflect.Kind) bool { return k == reflect.Slice || k == reflect.Array }

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// zeroFor is the result of converting nil to t: the zero value of booleans and numbers,
// nil otherwise.
func zeroFor(t reflect.Type) any {
	if t.Kind() == reflect.Bool || isNumber(t.Kind()) {
		return reflect.Zero(t).Interface()
	}
	return nil
}

// ConvertStage converts a single value. Configure it with the chained methods and
// commit it with To, As or one of the typed shortcuts.
type ConvertStage struct {
	m           *Mapper
	src         any
	def         any
	hasDef      bool
	hint        any
	strict      bool
	registry    *converters.Registry
	reportError bool
	err         error
}

// DefaultTo sets the value returned for a nil source, when no converter applies, or when
// the converter yields nil. A nil default is an error reported by the commit.
func (s *ConvertStage) DefaultTo(d any) *ConvertStage {
	if d == nil {
		s.err = ErrNilDefault
		return s
	}
	s.def, s.hasDef = d, true
	return s
}

// Hint passes h to the converter, for instance a time layout.
func (s *ConvertStage) Hint(h any) *ConvertStage { s.hint = h; return s }

// StrictMatching requires enum names to match exactly.
func (s *ConvertStage) StrictMatching() *ConvertStage { s.strict = true; return s }

// CustomTypeConverters makes r the first registry consulted.
func (s *ConvertStage) CustomTypeConverters(r *converters.Registry) *ConvertStage {
	s.registry = r
	return s
}

// ReportError makes To fail with a *NoConverterError instead of returning nil when no
// converter applies and no default is set.
func (s *ConvertStage) ReportError() *ConvertStage { s.reportError = true; return s }

// To converts the source to t. Converter failures are returned as *ConversionError.
func (s *ConvertStage) To(t reflect.Type) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	if isNilValue(s.src) {
		if s.hasDef {
			return s.def, nil
		}
		return zeroFor(t), nil
	}
	c := &conversion{custom: s.registry, base: s.m.registry, hint: s.hint, strict: s.strict}
	out, ok, err := c.value(s.src, t)
	if err != nil {
		return nil, &ConversionError{From: reflect.TypeOf(s.src), To: t, Err: err}
	}
	if !ok {
		if s.hasDef {
			return s.def, nil
		}
		if s.reportError {
			return nil, &NoConverterError{From: reflect.TypeOf(s.src), To: t}
		}
		return nil, nil
	}
	if out == nil && s.hasDef {
		return s.def, nil
	}
	return out, nil
}

// As commits s to the type T. A nil result yields the zero T.
func As[T any](s *ConvertStage) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	out, err := s.To(t)
	if err != nil || out == nil {
		return zero, err
	}
	v, ok := out.(T)
	if !ok {
		return zero, &ConversionError{From: reflect.TypeOf(out), To: t, Err: fmt.Errorf("result has type %T", out)}
	}
	return v, nil
}

// ConvertTo converts v to T with the default mapper.
func ConvertTo[T any](v any) (T, error) { return As[T](Convert(v)) }

func (s *ConvertStage) ToInt() (int, error)                { return As[int](s) }
func (s *ConvertStage) ToInt64() (int64, error)            { return As[int64](s) }
func (s *ConvertStage) ToFloat64() (float64, error)        { return As[float64](s) }
func (s *ConvertStage) ToBool() (bool, error)              { return As[bool](s) }
func (s *ConvertStage) ToString() (string, error)          { return As[string](s) }
func (s *ConvertStage) ToTime() (time.Time, error)         { return As[time.Time](s) }
func (s *ConvertStage) ToDuration() (time.Duration, error) { return As[time.Duration](s) }

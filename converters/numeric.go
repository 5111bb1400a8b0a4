package converters

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/spf13/cast"
)

var (
	integerTypes = []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
	}
	floatTypes  = []reflect.Type{reflect.TypeFor[float32](), reflect.TypeFor[float64]()}
	numberTypes = append(append([]reflect.Type(nil), integerTypes...), floatTypes...)
)

// ParseInteger parses a base 10 integer. It also accepts the product micro-syntax
// "N*M[*K...]", so "10*60" is 600, and whole-valued decimals such as "7.0".
func ParseInteger(s string) (int64, error) {
	const op errors.Op = "converters.ParseInteger"
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(op).Msg(ErrMsgEmptyString)
	}
	product := int64(1)
	for _, part := range strings.Split(s, "*") {
		n, err := parseFactor(strings.TrimSpace(part))
		if err != nil {
			return 0, errors.New(op).Err(err).Msg(ErrMsgBadInteger + ", got " + strconv.Quote(s))
		}
		next := product * n
		if n != 0 && (next/n != product || (n == -1 && product == math.MinInt64)) {
			return 0, errors.New(op).Errorf("%q overflows int64", s)
		}
		product = next
	}
	return product, nil
}

func parseFactor(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

// toNumber converts src into a value of the numeric type to, rejecting values the
// target cannot represent.
func toNumber(src any, to reflect.Type) (any, error) {
	const op errors.Op = "converters.toNumber"
	out := reflect.New(to).Elem()
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var (
			n   int64
			err error
		)
		if s, ok := src.(string); ok {
			n, err = ParseInteger(s)
		} else {
			n, err = cast.ToInt64E(src)
		}
		if err != nil {
			return nil, Wrap(op, ErrMsgBadNumber, err)
		}
		if out.OverflowInt(n) {
			return nil, errors.New(op).Errorf("%d overflows %v", n, to)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var (
			u   uint64
			err error
		)
		if s, ok := src.(string); ok {
			if u, err = strconv.ParseUint(strings.TrimSpace(s), 10, 64); err != nil {
				var n int64
				if n, err = ParseInteger(s); err == nil {
					if n < 0 {
						return nil, errors.New(op).Errorf("%d overflows %v", n, to)
					}
					u = uint64(n)
				}
			}
		} else {
			u, err = cast.ToUint64E(src)
		}
		if err != nil {
			return nil, Wrap(op, ErrMsgBadNumber, err)
		}
		if out.OverflowUint(u) {
			return nil, errors.New(op).Errorf("%d overflows %v", u, to)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(src)
		if err != nil {
			return nil, Wrap(op, ErrMsgBadNumber, err)
		}
		if out.OverflowFloat(f) {
			return nil, errors.New(op).Errorf("%v overflows %v", f, to)
		}
		out.SetFloat(f)
	default:
		return nil, errors.New(op).Errorf("%v is not a number type", to)
	}
	return out.Interface(), nil
}

// ParseBool understands the strconv spellings plus yes/no, y/n and on/off. The empty
// string is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "f", "false", "n", "no", "off":
		return false, nil
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	}
	return cast.ToBoolE(s)
}

func registerNumeric(r *Registry) {
	str := reflect.TypeFor[string]()
	boolType := reflect.TypeFor[bool]()
	for _, from := range numberTypes {
		for _, to := range numberTypes {
			if from == to {
				continue
			}
			r.Register(NewFunc(from, to, func(src, _ any) (any, error) { return toNumber(src, to) }))
		}
		r.Register(
			NewFunc(str, from, func(src, _ any) (any, error) { return toNumber(src, from) }),
			NewFunc(from, str, func(src, _ any) (any, error) { return cast.ToStringE(src) }),
			NewFunc(from, boolType, func(src, _ any) (any, error) { return cast.ToBoolE(src) }),
			NewFunc(boolType, from, func(src, _ any) (any, error) {
				n, err := cast.ToInt64E(src)
				if err != nil {
					return nil, err
				}
				return toNumber(n, from)
			}),
		)
	}
	r.Register(
		New(ParseBool),
		New(func(b bool) (string, error) { return strconv.FormatBool(b), nil }),
	)
}

package property

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrNoSuchProperty is reported when a path names a property the type does not have.
	ErrNoSuchProperty = errors.New("no such property")
	// ErrMissing is reported when a nil intermediate value blocks a write and creation is off.
	ErrMissing = errors.New("missing intermediate value")
	// ErrBadPath is reported for malformed paths.
	ErrBadPath = errors.New("malformed property path")
)

// AccessError identifies the type and property path of a failed reflective access.
type AccessError struct {
	Type reflect.Type
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("property %q of %v: %v", e.Path, e.Type, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Getter reads a property from an instance. An invalid reflect.Value with a nil error
// means the property is absent (a nil value on the way, a missing map key, an index out
// of range).
type Getter interface {
	Get(v reflect.Value) (reflect.Value, error)
}

// Setter writes a property on an instance. v must be addressable (or a map).
type Setter interface {
	Set(v, x reflect.Value) error
}

type segment struct {
	name    string
	index   int
	isIndex bool
}

func (s segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.name
}

// Accessor reads and writes the property addressed by a path on instances of a type.
// Accessors are immutable and cached per (type, path).
type Accessor struct {
	root reflect.Type
	path string
	segs []segment
	typ  reflect.Type
}

type accessorKey struct {
	typ  reflect.Type
	path string
}

var accessorCache sync.Map // map[accessorKey]*Accessor

// For returns the accessor of path on t. Path segments are separated by '.', and
// "[n]" addresses a slice/array index or, when n is not an integer, a map key.
func For(t reflect.Type, path string) (*Accessor, error) {
	key := accessorKey{typ: t, path: path}
	if cached, ok := accessorCache.Load(key); ok {
		return cached.(*Accessor), nil
	}
	segs, err := parsePath(path)
	if err != nil {
		return nil, &AccessError{Type: t, Path: path, Err: err}
	}
	typ, err := resolve(t, segs)
	if err != nil {
		return nil, &AccessError{Type: t, Path: path, Err: err}
	}
	a := &Accessor{root: t, path: path, segs: segs, typ: typ}
	actual, _ := accessorCache.LoadOrStore(key, a)
	return actual.(*Accessor), nil
}

// Path returns the path the accessor was built for.
func (a *Accessor) Path() string { return a.path }

// Type returns the declared type of the addressed property. It is nil when the path
// crosses an interface and the type is only known at run time.
func (a *Accessor) Type() reflect.Type { return a.typ }

// Get implements Getter.
func (a *Accessor) Get(v reflect.Value) (reflect.Value, error) {
	cur := v
	for _, seg := range a.segs {
		cur = deref(cur)
		if !cur.IsValid() {
			return reflect.Value{}, nil
		}
		next, err := step(cur, seg)
		if err != nil {
			return reflect.Value{}, &AccessError{Type: a.root, Path: a.path, Err: err}
		}
		if !next.IsValid() {
			return reflect.Value{}, nil
		}
		cur = next
	}
	return cur, nil
}

// Set implements Setter without creating missing intermediate values.
func (a *Accessor) Set(v, x reflect.Value) error {
	return a.set(v, x, false)
}

// CreatingMissing returns a Setter that allocates nil pointers, maps, interface slots and
// short slices found on the way to the property.
func (a *Accessor) CreatingMissing() Setter { return creating{a} }

type creating struct{ a *Accessor }

func (c creating) Set(v, x reflect.Value) error { return c.a.set(v, x, true) }

func (a *Accessor) set(v, x reflect.Value, create bool) error {
	if v.Kind() == reflect.Pointer && !v.CanSet() {
		if v.IsNil() {
			return &AccessError{Type: a.root, Path: a.path, Err: ErrMissing}
		}
		v = v.Elem()
	}
	if err := assignPath(v, a.segs, x, create); err != nil {
		return &AccessError{Type: a.root, Path: a.path, Err: err}
	}
	return nil
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func step(cur reflect.Value, seg segment) (reflect.Value, error) {
	switch cur.Kind() {
	case reflect.Struct:
		f, ok := lookupField(cur.Type(), seg)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrNoSuchProperty, seg)
		}
		fv, ok := Value(cur, f)
		if !ok {
			return reflect.Value{}, nil
		}
		return fv, nil
	case reflect.Map:
		key, err := mapKey(cur.Type().Key(), seg)
		if err != nil {
			return reflect.Value{}, err
		}
		return cur.MapIndex(key), nil
	case reflect.Slice, reflect.Array:
		if !seg.isIndex {
			return reflect.Value{}, fmt.Errorf("%w: %s is not an index", ErrBadPath, seg)
		}
		if seg.index >= cur.Len() {
			return reflect.Value{}, nil
		}
		return cur.Index(seg.index), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot traverse %v with %s", ErrNoSuchProperty, cur.Type(), seg)
}

func assignPath(cur reflect.Value, segs []segment, x reflect.Value, create bool) error {
	if len(segs) == 0 {
		return assign(cur, x)
	}
	switch cur.Kind() {
	case reflect.Pointer:
		if cur.IsNil() {
			if !create || !cur.CanSet() {
				return ErrMissing
			}
			cur.Set(reflect.New(cur.Type().Elem()))
		}
		return assignPath(cur.Elem(), segs, x, create)
	case reflect.Interface:
		if cur.IsNil() {
			if !create || !cur.CanSet() {
				return ErrMissing
			}
			if segs[0].isIndex {
				cur.Set(reflect.ValueOf(make([]any, 0)))
			} else {
				cur.Set(reflect.ValueOf(make(map[string]any)))
			}
		}
		inner := cur.Elem()
		cp := reflect.New(inner.Type()).Elem()
		cp.Set(inner)
		if err := assignPath(cp, segs, x, create); err != nil {
			return err
		}
		cur.Set(cp)
		return nil
	case reflect.Struct:
		f, ok := lookupField(cur.Type(), segs[0])
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoSuchProperty, segs[0])
		}
		fv, ok := Settable(cur, f)
		if !ok {
			return fmt.Errorf("field %s cannot be set", f.Name)
		}
		return assignPath(fv, segs[1:], x, create)
	case reflect.Map:
		if cur.IsNil() {
			if !create || !cur.CanSet() {
				return ErrMissing
			}
			cur.Set(reflect.MakeMap(cur.Type()))
		}
		key, err := mapKey(cur.Type().Key(), segs[0])
		if err != nil {
			return err
		}
		slot := reflect.New(cur.Type().Elem()).Elem()
		if existing := cur.MapIndex(key); existing.IsValid() {
			slot.Set(existing)
		} else if len(segs) > 1 && !create {
			return ErrMissing
		}
		if err := assignPath(slot, segs[1:], x, create); err != nil {
			return err
		}
		cur.SetMapIndex(key, slot)
		return nil
	case reflect.Slice:
		if !segs[0].isIndex {
			return fmt.Errorf("%w: %s is not an index", ErrBadPath, segs[0])
		}
		i := segs[0].index
		if i >= cur.Len() {
			if !create || !cur.CanSet() {
				return fmt.Errorf("index %d out of range [0:%d]", i, cur.Len())
			}
			grown := reflect.MakeSlice(cur.Type(), i+1, i+1)
			reflect.Copy(grown, cur)
			cur.Set(grown)
		}
		return assignPath(cur.Index(i), segs[1:], x, create)
	case reflect.Array:
		if !segs[0].isIndex {
			return fmt.Errorf("%w: %s is not an index", ErrBadPath, segs[0])
		}
		if segs[0].index >= cur.Len() {
			return fmt.Errorf("index %d out of range [0:%d]", segs[0].index, cur.Len())
		}
		return assignPath(cur.Index(segs[0].index), segs[1:], x, create)
	}
	return fmt.Errorf("%w: cannot traverse %v with %s", ErrNoSuchProperty, cur.Type(), segs[0])
}

func assign(dst, x reflect.Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("value of type %v cannot be set", dst.Type())
	}
	if !x.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if x.Type().AssignableTo(dst.Type()) {
		dst.Set(x)
		return nil
	}
	if Convertible(x.Type(), dst.Type()) {
		dst.Set(x.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %v to %v", x.Type(), dst.Type())
}

// Convertible reports whether a value of type from may be converted to type to with
// reflect.Value.Convert without changing its meaning. Integer to string conversions
// (which yield a rune) and conversions that can panic are excluded.
func Convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	if from.Kind() == reflect.String && to.Kind() != reflect.String {
		return false
	}
	if from.Kind() == reflect.Slice && to.Kind() == reflect.Array {
		return false
	}
	return true
}

func lookupField(t reflect.Type, seg segment) (*Field, bool) {
	if seg.isIndex {
		return nil, false
	}
	s := Of(t)
	if f, ok := s.Field(seg.name); ok && !f.Ignore {
		return f, true
	}
	if f, ok := s.FieldByJSONName(seg.name); ok && !f.Ignore {
		return f, true
	}
	return nil, false
}

func mapKey(kt reflect.Type, seg segment) (reflect.Value, error) {
	raw := seg.name
	if seg.isIndex {
		raw = strconv.Itoa(seg.index)
	}
	switch kt.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(kt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: map key %q: %v", ErrBadPath, raw, err)
		}
		return reflect.ValueOf(n).Convert(kt), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: map key %q: %v", ErrBadPath, raw, err)
		}
		return reflect.ValueOf(n).Convert(kt), nil
	case reflect.Interface:
		if reflect.TypeOf(raw).Implements(kt) {
			return reflect.ValueOf(raw), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: unsupported map key type %v", ErrBadPath, kt)
}

func resolve(t reflect.Type, segs []segment) (reflect.Type, error) {
	cur := t
	for _, seg := range segs {
		for cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Interface:
			return nil, nil
		case reflect.Struct:
			f, ok := lookupField(cur, seg)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNoSuchProperty, seg)
			}
			cur = f.Type
		case reflect.Map:
			if _, err := mapKey(cur.Key(), seg); err != nil {
				return nil, err
			}
			cur = cur.Elem()
		case reflect.Slice, reflect.Array:
			if !seg.isIndex {
				return nil, fmt.Errorf("%w: %s is not an index", ErrBadPath, seg)
			}
			cur = cur.Elem()
		default:
			return nil, fmt.Errorf("%w: cannot traverse %v with %s", ErrNoSuchProperty, cur, seg)
		}
	}
	return cur, nil
}

func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	var segs []segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrBadPath, path)
		}
		name := part
		rest := ""
		if open := strings.IndexByte(part, '['); open >= 0 {
			name, rest = part[:open], part[open:]
		}
		if name != "" {
			segs = append(segs, segment{name: name})
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrBadPath, path)
			}
			inner := rest[1:end]
			if n, err := strconv.Atoi(inner); err == nil && n >= 0 {
				segs = append(segs, segment{index: n, isIndex: true})
			} else if inner != "" {
				segs = append(segs, segment{name: inner})
			} else {
				return nil, fmt.Errorf("%w: empty index in %q", ErrBadPath, path)
			}
			rest = rest[end+1:]
		}
	}
	return segs, nil
}

package mapper

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Station-Manager/mapper/property"
	"github.com/goccy/go-json"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	valuerType        = reflect.TypeFor[driver.Valuer]()
)

// opaque reports structs that encode themselves, such as null.String, which a flat copy
// keeps whole instead of descending into their fields.
func opaque(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(valuerType) ||
		reflect.PointerTo(t).Implements(jsonMarshalerType)
}

func sortedKeys(m reflect.Value) ([]reflect.Value, []string) {
	keys := m.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprint(indirect(k).Interface())
	}
	sort.Sort(byName{keys, names})
	return keys, names
}

type byName struct {
	keys  []reflect.Value
	names []string
}

func (b byName) Len() int           { return len(b.keys) }
func (b byName) Less(i, j int) bool { return b.names[i] < b.names[j] }
func (b byName) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.names[i], b.names[j] = b.names[j], b.names[i]
}

// flatten writes the leaves of the bean or map src into the map dst under dotted keys.
// List elements get an index suffix: "Tags[0]".
func (d *dataMapper) flatten(dst, src reflect.Value, path []string) error {
	kt := dst.Type().Key()
	if kt.Kind() != reflect.String && !(kt.Kind() == reflect.Interface && stringType.Implements(kt)) {
		return &UnsupportedError{From: src.Type(), To: dst.Type(), Reason: "flat keys are strings"}
	}
	if dst.IsNil() {
		m, err := d.newInstance(dst.Type())
		if err != nil {
			return err
		}
		dst.Set(m)
	}
	seen := make(map[visitKey]bool)
	if r := indirect(d.rootSrc); len(path) == 0 && r.Kind() == reflect.Pointer && !r.IsNil() {
		seen[visitKey{ptr: r.Pointer(), src: r.Type()}] = true
	}
	return d.flattenInto(dst, src, path, path, seen)
}

// flattenInto walks v depth first. seen holds the references on the current branch, so
// a value reachable from itself is flattened once.
func (d *dataMapper) flattenInto(dst, v reflect.Value, base, path []string, seen map[visitKey]bool) error {
	v = indirect(v)
	if isNull(v) {
		return nil
	}
	switch k := v.Kind(); k {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		key := visitKey{ptr: v.Pointer(), src: v.Type()}
		if k == reflect.Slice {
			key.n = v.Len()
		}
		if seen[key] {
			return nil
		}
		seen[key] = true
		defer delete(seen, key)
		if k == reflect.Pointer {
			return d.flattenInto(dst, v.Elem(), base, path, seen)
		}
	}
	vd := d.filters.check(path, d.eq)
	if vd == skip {
		return nil
	}
	switch categoryOf(v.Type()) {
	case catBean:
		if opaque(v.Type()) {
			break
		}
		for _, sf := range property.Bounded(v.Type(), d.root).Fields {
			if sf.Ignore {
				continue
			}
			fv, ok := property.Value(v, sf)
			if !ok {
				continue
			}
			if err := d.flattenInto(dst, fv, base, appendPath(path, sf.Name), seen); err != nil {
				return err
			}
		}
		return nil
	case catMap:
		keys, names := sortedKeys(v)
		for i, k := range keys {
			if err := d.flattenInto(dst, v.MapIndex(k), base, appendPath(path, names[i]), seen); err != nil {
				return err
			}
		}
		return nil
	case catList:
		if len(path) == len(base) {
			break
		}
		for i := 0; i < v.Len(); i++ {
			if err := d.flattenInto(dst, v.Index(i), base, appendPath(path, fmt.Sprintf("[%d]", i)), seen); err != nil {
				return err
			}
		}
		return nil
	}
	if vd != whole || len(path) == len(base) {
		return nil
	}
	return d.entry(dst, dst.Type().Key(), joinPath(path[len(base):]), v, path, vd)
}

// splitFlatKey splits "Home.Lines[2]" into the path segments Home, Lines and [2].
func splitFlatKey(key string) []string {
	return strings.Split(strings.ReplaceAll(key, "[", ".["), ".")
}

// expand is the reverse of flatten: plain keys map like a regular copy, dotted keys are
// written through property paths, creating intermediate values. Keys naming no target
// property are skipped.
func (d *dataMapper) expand(dst, src reflect.Value, path []string) error {
	if err := d.mapToBean(dst, src, path); err != nil {
		return err
	}
	keys, names := sortedKeys(src)
	for i, k := range keys {
		name := names[i]
		if !strings.ContainsAny(name, ".[") {
			continue
		}
		a, err := property.For(dst.Type(), name)
		if err != nil {
			continue
		}
		p := append(append([]string(nil), path...), splitFlatKey(name)...)
		if d.filters.check(p, d.eq) != whole {
			continue
		}
		sv := indirect(src.MapIndex(k))
		if isNull(sv) {
			continue
		}
		x := sv
		if t := a.Type(); t != nil {
			tmp := reflect.New(t).Elem()
			if err := d.transfer(tmp, sv, p, whole); err != nil {
				if err := d.fail(p, err); err != nil {
					return err
				}
				continue
			}
			x = tmp
		}
		if err := a.CreatingMissing().Set(dst, x); err != nil {
			if err := d.fail(p, err); err != nil {
				return err
			}
		}
	}
	return nil
}

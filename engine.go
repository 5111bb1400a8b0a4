package mapper

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Station-Manager/mapper/keyword"
	"github.com/Station-Manager/mapper/property"
)

// InstanceFactory creates the values the mapper allocates for targets. It receives the
// type needed (a pointer type for pointer targets) and returns a value of that type,
// or nil to fall back to the zero value.
type InstanceFactory func(t reflect.Type) (any, error)

type category int

const (
	catOther category = iota
	catBean
	catMap
	catList
)

// categoryOf classifies t, looking through pointers. Structs without exported fields
// (time.Time) and byte slices are plain values.
func categoryOf(t reflect.Type) category {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		if s := property.Of(t); s != nil && len(s.Fields) > 0 {
			return catBean
		}
	case reflect.Map:
		return catMap
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() != reflect.Uint8 {
			return catList
		}
	}
	return catOther
}

type zeroer interface{ IsZero() bool }

// isNull reports values a merge never copies: invalid values, nil references, and
// structs whose IsZero method reports true (null.String{}, time.Time{}).
func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Struct:
		if v.CanInterface() {
			if z, ok := v.Interface().(zeroer); ok {
				return z.IsZero()
			}
		}
	}
	return false
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func appendPath(path []string, name string) []string {
	return append(path[:len(path):len(path)], name)
}

// visitKey identifies a source reference already mapped to a target type. n is the
// length of slices, which share their pointer with shorter slices of the same array.
type visitKey struct {
	ptr uintptr
	n   int
	src reflect.Type
	dst reflect.Type
}

// dataMapper runs a single mapping. It is created by a MappingStage commit and is
// not safe for concurrent use.
type dataMapper struct {
	m               *Mapper
	semantic        Semantic
	rule            MappingRule
	root            reflect.Type
	specials        map[string]string
	specialParents  map[string]bool
	filters         filters
	conv            *conversion
	hints           map[reflect.Type]any
	fieldConverters map[string]ConverterFunc
	validators      map[string]ValidatorFunc
	factory         InstanceFactory
	ignoreError     bool
	logger          *slog.Logger

	rootSrc          reflect.Value
	srcType, dstType reflect.Type
	visited          map[visitKey]reflect.Value
}

func (d *dataMapper) eq(a, b string) bool {
	if d.rule == KeywordMatching {
		return keyword.Equal(a, b)
	}
	return a == b
}

// run maps src onto the addressable dst.
func (d *dataMapper) run(dst, src reflect.Value) error {
	d.rootSrc = src
	d.srcType, d.dstType = src.Type(), dst.Type()
	d.visited = make(map[visitKey]reflect.Value)
	src = indirect(src)
	if !src.IsValid() {
		return ErrNilSource
	}
	if src.Kind() == reflect.Pointer && !src.IsNil() && dst.CanAddr() {
		d.visited[visitKey{ptr: src.Pointer(), src: src.Type(), dst: reflect.PointerTo(dst.Type())}] = dst.Addr()
	}
	v := d.filters.check(nil, d.eq)
	var err error
	if categoryOf(src.Type()) != catOther && categoryOf(dst.Type()) != catOther {
		err = d.structural(dst, src, nil, v)
	} else {
		err = d.transfer(dst, src, nil, v)
	}
	if err != nil {
		return d.fail(nil, err)
	}
	return nil
}

// fail turns err into a *MappingError for path, or logs and drops it when errors are
// ignored.
func (d *dataMapper) fail(path []string, err error) error {
	if d.ignoreError {
		d.logger.Debug("mapper: skipping field", "path", joinPath(path), "semantic", d.semantic.String(), "error", err)
		return nil
	}
	var me *MappingError
	if errors.As(err, &me) {
		return err
	}
	return &MappingError{Path: joinPath(path), SourceType: d.srcType, TargetType: d.dstType, Err: err}
}

// atomic reports whether the value at path may be transferred as a whole.
func (d *dataMapper) atomic(path []string, v verdict) bool {
	if v != whole || d.filters.excludesBelow(path, d.eq) {
		return false
	}
	return !d.specialParents[joinPath(path)]
}

// transfer writes src into the settable dst.
func (d *dataMapper) transfer(dst, src reflect.Value, path []string, v verdict) error {
	src = indirect(src)
	if isNull(src) {
		if !d.semantic.merge() && v == whole {
			dst.Set(reflect.Zero(dst.Type()))
		}
		return nil
	}
	st, dt := src.Type(), dst.Type()
	structural := categoryOf(st) != catOther && (categoryOf(dt) != catOther || dt.Kind() == reflect.Interface)
	if st.AssignableTo(dt) {
		if !structural {
			if v != whole {
				return nil
			}
			if d.semantic.deep() && st.Kind() == reflect.Slice {
				src = reflect.AppendSlice(reflect.MakeSlice(st, 0, src.Len()), src)
			}
			dst.Set(src)
			return nil
		}
		if !d.semantic.deep() && d.atomic(path, v) {
			dst.Set(src)
			return nil
		}
		return d.structural(dst, src, path, v)
	}
	if structural {
		if _, ok := d.conv.exact(st, dt); !ok {
			return d.structural(dst, src, path, v)
		}
	}
	if v != whole {
		return nil
	}
	if !structural {
		if _, ok := d.conv.exact(st, dt); !ok {
			return d.indirectTransfer(dst, src, path, v)
		}
	}
	return d.convert(dst, src)
}

// indirectTransfer maps *T onto U and T onto *U through the pointed-to value.
func (d *dataMapper) indirectTransfer(dst, src reflect.Value, path []string, v verdict) error {
	st, dt := src.Type(), dst.Type()
	switch {
	case st.Kind() == reflect.Pointer && dt.Kind() != reflect.Pointer && dt.Kind() != reflect.Interface:
		return d.transfer(dst, src.Elem(), path, v)
	case dt.Kind() == reflect.Pointer && st.Kind() != reflect.Pointer:
		p := dst
		if dst.IsNil() || !d.semantic.merge() {
			var err error
			if p, err = d.newInstance(dt); err != nil {
				return err
			}
		}
		if err := d.transfer(p.Elem(), src, path, v); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	return d.convert(dst, src)
}

// convert runs the conversion pipeline for dst's type.
func (d *dataMapper) convert(dst, src reflect.Value) error {
	dt := dst.Type()
	c := d.conv
	if h, ok := d.hints[dt]; ok {
		withHint := *c
		withHint.hint = h
		c = &withHint
	}
	out, ok, err := c.value(src.Interface(), dt)
	if err != nil {
		return &ConversionError{From: src.Type(), To: dt, Err: err}
	}
	if !ok {
		if dt.Kind() == reflect.Interface {
			return &UnsupportedError{From: src.Type(), To: dt, Reason: "value does not implement the interface"}
		}
		return &NoConverterError{From: src.Type(), To: dt}
	}
	if out == nil {
		if !d.semantic.merge() {
			dst.Set(reflect.Zero(dt))
		}
		return nil
	}
	rv, ok := fit(reflect.ValueOf(out), dt)
	if !ok {
		return &ConversionError{From: src.Type(), To: dt, Err: fmt.Errorf("converter returned %T", out)}
	}
	dst.Set(rv)
	return nil
}

// structural maps between beans, maps and lists, recursing into their members.
func (d *dataMapper) structural(dst, src reflect.Value, path []string, v verdict) error {
	if dst.Kind() == reflect.Interface {
		if !src.Type().AssignableTo(dst.Type()) {
			return &UnsupportedError{From: src.Type(), To: dst.Type(), Reason: "value does not implement the interface"}
		}
		tmp := reflect.New(src.Type()).Elem()
		if cur := indirect(dst); d.semantic.merge() && cur.IsValid() && cur.Type() == src.Type() {
			tmp.Set(cur)
		}
		if err := d.structural(tmp, src, path, v); err != nil {
			return err
		}
		dst.Set(tmp)
		return nil
	}
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return nil
		}
		if dst.Kind() == reflect.Pointer {
			return d.pointer(dst, src, path, v)
		}
		return d.structural(dst, src.Elem(), path, v)
	}
	if dst.Kind() == reflect.Pointer {
		p := dst
		if dst.IsNil() || !d.semantic.merge() {
			var err error
			if p, err = d.newInstance(dst.Type()); err != nil {
				return err
			}
		}
		if err := d.structural(p.Elem(), src, path, v); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	flat := d.semantic == SemanticFlatCopy
	switch sc, dc := categoryOf(src.Type()), categoryOf(dst.Type()); {
	case sc == catBean && dc == catBean:
		return d.beanToBean(dst, src, path)
	case (sc == catBean || sc == catMap) && dc == catMap && flat:
		return d.flatten(dst, src, path)
	case sc == catBean && dc == catMap:
		return d.beanToMap(dst, src, path)
	case sc == catMap && dc == catBean && flat:
		return d.expand(dst, src, path)
	case sc == catMap && dc == catBean:
		return d.mapToBean(dst, src, path)
	case sc == catMap && dc == catMap:
		return d.mapToMap(dst, src, path)
	case sc == catList && dc == catList:
		return d.listToList(dst, src, path, v)
	}
	if v != whole {
		return nil
	}
	return d.convert(dst, src)
}

// pointer maps the non-nil pointer src into the pointer dst. Each source pointer is
// mapped once per target type, so cycles in the source become cycles in the target.
func (d *dataMapper) pointer(dst, src reflect.Value, path []string, v verdict) error {
	key := visitKey{ptr: src.Pointer(), src: src.Type(), dst: dst.Type()}
	if seen, ok := d.visited[key]; ok {
		dst.Set(seen)
		return nil
	}
	p := dst
	if dst.IsNil() || !d.semantic.merge() {
		var err error
		if p, err = d.newInstance(dst.Type()); err != nil {
			return err
		}
	}
	d.visited[key] = p
	if err := d.transfer(p.Elem(), src.Elem(), path, v); err != nil {
		return err
	}
	dst.Set(p)
	return nil
}

// newInstance returns a new value of type t: a fresh pointer for pointer types, an
// empty map for maps.
func (d *dataMapper) newInstance(t reflect.Type) (reflect.Value, error) {
	if d.factory != nil {
		x, err := d.factory(t)
		if err != nil {
			return reflect.Value{}, err
		}
		if x != nil {
			if xv := reflect.ValueOf(x); xv.Type().AssignableTo(t) {
				return xv, nil
			}
		}
	}
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()), nil
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Interface:
		return reflect.Value{}, &UnsupportedError{To: t, Reason: "interface has no concrete implementation"}
	}
	return reflect.New(t).Elem(), nil
}

// matchField finds the source field feeding df under the mapping rule.
func (d *dataMapper) matchField(srcMeta *property.Struct, df *property.Field) (*property.Field, bool) {
	if d.rule == KeywordMatching {
		if sf, ok := srcMeta.FieldByKeyword(df.Keyword); ok {
			return sf, true
		}
		if df.JSONName != "" {
			return srcMeta.FieldByKeyword(keyword.Of(df.JSONName))
		}
		return nil, false
	}
	if sf, ok := srcMeta.Field(df.Name); ok {
		return sf, true
	}
	if df.JSONName != "" {
		return srcMeta.FieldByJSONName(df.JSONName)
	}
	return nil, false
}

// special reads the source value named by an explicit mapping of the target path.
func (d *dataMapper) special(path []string) (reflect.Value, bool, error) {
	sp, ok := d.specials[joinPath(path)]
	if !ok {
		return reflect.Value{}, false, nil
	}
	a, err := property.For(d.rootSrc.Type(), sp)
	if err != nil {
		return reflect.Value{}, true, err
	}
	v, err := a.Get(d.rootSrc)
	return v, true, err
}

func (d *dataMapper) beanToBean(dst, src reflect.Value, path []string) error {
	st, dt := src.Type(), dst.Type()
	dstMeta := property.Bounded(dt, d.root)
	srcMeta := property.Bounded(st, d.root)
	if st == dt && d.root == nil && !d.semantic.merge() && !hasIgnored(dstMeta) && d.atomic(path, d.filters.check(path, d.eq)) {
		// carries unexported fields; exported ones are rewritten below
		dst.Set(src)
	}
	var ov *overflow
	if st != dt {
		ov = d.newOverflow(dstMeta, srcMeta)
		defer ov.release()
	}
	for _, df := range dstMeta.Fields {
		if df.Ignore || ov.isTarget(df) {
			continue
		}
		p := appendPath(path, df.Name)
		v := d.filters.check(p, d.eq)
		if v == skip {
			continue
		}
		sv, found, err := d.special(p)
		if err != nil {
			if err := d.fail(p, err); err != nil {
				return err
			}
			continue
		}
		if found && len(path) == 0 {
			ov.markSpecial(d.specials[joinPath(p)])
		}
		if !found {
			sf, ok := d.matchField(srcMeta, df)
			if !ok {
				continue
			}
			ov.markProcessed(sf)
			if sf.Ignore || ov.isSource(sf) {
				continue
			}
			if sv, ok = property.Value(src, sf); !ok {
				continue
			}
		}
		if err := d.field(dst, df, sv, p, v); err != nil {
			return err
		}
		ov.markSet(df)
	}
	if ov != nil {
		return ov.finish(dst, src, dstMeta, srcMeta, path)
	}
	return nil
}

func hasIgnored(s *property.Struct) bool {
	for _, f := range s.Fields {
		if f.Ignore {
			return true
		}
	}
	return false
}

// field writes sv into field df of the struct dst, applying field converters and
// validators.
func (d *dataMapper) field(dst reflect.Value, df *property.Field, sv reflect.Value, p []string, v verdict) error {
	if d.semantic.merge() && isNull(indirect(sv)) {
		return nil
	}
	fv, ok := property.Settable(dst, df)
	if !ok {
		return d.fail(p, fmt.Errorf("field %s cannot be set", df.Name))
	}
	var err error
	if fn := d.fieldConverters[df.Name]; fn != nil {
		err = applyConverter(fv, fn, sv, df.Name)
	} else {
		err = d.transfer(fv, sv, p, v)
	}
	if err == nil {
		err = d.validate(df.Name, fv)
	}
	if err != nil {
		return d.fail(p, err)
	}
	return nil
}

func (d *dataMapper) validate(name string, fv reflect.Value) error {
	if fn := d.validators[name]; fn != nil {
		return fn(fv.Interface())
	}
	return nil
}

func applyConverter(dstField reflect.Value, fn ConverterFunc, srcField reflect.Value, fieldName string) error {
	var in interface{}
	if srcField = indirect(srcField); srcField.IsValid() {
		in = srcField.Interface()
	}
	converted, err := fn(in)
	if err != nil {
		return err
	}
	if converted == nil {
		dstField.Set(reflect.Zero(dstField.Type()))
		return nil
	}
	cv := reflect.ValueOf(converted)
	if !cv.Type().AssignableTo(dstField.Type()) {
		return fmt.Errorf("converter for field %s returned type %s, expected %s", fieldName, cv.Type(), dstField.Type())
	}
	dstField.Set(cv)
	return nil
}

// keyIndex finds map entries by key text, exactly or in keyword form.
type keyIndex struct {
	exact   map[string]reflect.Value
	keyword map[string]reflect.Value
}

func indexKeys(m reflect.Value) keyIndex {
	keys := m.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprint(k.Interface())
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return names[order[a]] < names[order[b]] })
	idx := keyIndex{exact: make(map[string]reflect.Value, len(keys)), keyword: make(map[string]reflect.Value, len(keys))}
	for _, i := range order {
		idx.exact[names[i]] = keys[i]
		kw := keyword.Of(names[i])
		if _, dup := idx.keyword[kw]; !dup {
			idx.keyword[kw] = keys[i]
		}
	}
	return idx
}

func (idx keyIndex) lookup(df *property.Field, rule MappingRule) (reflect.Value, bool) {
	if rule == KeywordMatching {
		if k, ok := idx.keyword[df.Keyword]; ok {
			return k, true
		}
		if df.JSONName != "" {
			k, ok := idx.keyword[keyword.Of(df.JSONName)]
			return k, ok
		}
		return reflect.Value{}, false
	}
	if k, ok := idx.exact[df.Name]; ok {
		return k, true
	}
	if df.JSONName != "" {
		k, ok := idx.exact[df.JSONName]
		return k, ok
	}
	return reflect.Value{}, false
}

func (d *dataMapper) mapToBean(dst, src reflect.Value, path []string) error {
	dstMeta := property.Bounded(dst.Type(), d.root)
	idx := indexKeys(src)
	for _, df := range dstMeta.Fields {
		if df.Ignore {
			continue
		}
		p := appendPath(path, df.Name)
		v := d.filters.check(p, d.eq)
		if v == skip {
			continue
		}
		sv, found, err := d.special(p)
		if err != nil {
			if err := d.fail(p, err); err != nil {
				return err
			}
			continue
		}
		if !found {
			k, ok := idx.lookup(df, d.rule)
			if !ok {
				continue
			}
			sv = src.MapIndex(k)
		}
		if err := d.field(dst, df, sv, p, v); err != nil {
			return err
		}
	}
	return nil
}

// targetMap prepares the map dst for writing. Nested maps are replaced unless merging;
// the top-level target is always written in place.
func (d *dataMapper) targetMap(dst, src reflect.Value, path []string) (bool, error) {
	var key visitKey
	if src.Kind() == reflect.Map {
		key = visitKey{ptr: src.Pointer(), src: src.Type(), dst: dst.Type()}
		if seen, ok := d.visited[key]; ok {
			dst.Set(seen)
			return true, nil
		}
	}
	if dst.IsNil() || (len(path) > 0 && !d.semantic.merge()) {
		m, err := d.newInstance(dst.Type())
		if err != nil {
			return false, err
		}
		dst.Set(m)
	}
	if key.src != nil {
		d.visited[key] = reflect.ValueOf(dst.Interface())
	}
	return false, nil
}

func (d *dataMapper) mapKey(kt reflect.Type, name string) (reflect.Value, error) {
	if kt.Kind() == reflect.String {
		return reflect.ValueOf(name).Convert(kt), nil
	}
	if kt.Kind() == reflect.Interface && stringType.Implements(kt) {
		return reflect.ValueOf(name), nil
	}
	out, ok, err := d.conv.value(name, kt)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok || out == nil {
		return reflect.Value{}, &NoConverterError{From: stringType, To: kt}
	}
	rv, ok := fit(reflect.ValueOf(out), kt)
	if !ok {
		return reflect.Value{}, &NoConverterError{From: stringType, To: kt}
	}
	return rv, nil
}

func (d *dataMapper) mapEntry(dst, key, sv reflect.Value, p []string, v verdict) error {
	elem := reflect.New(dst.Type().Elem()).Elem()
	if cur := dst.MapIndex(key); cur.IsValid() && d.semantic.merge() {
		elem.Set(cur)
	}
	if err := d.transfer(elem, sv, p, v); err != nil {
		return err
	}
	dst.SetMapIndex(key, elem)
	return nil
}

func (d *dataMapper) beanToMap(dst, src reflect.Value, path []string) error {
	if _, err := d.targetMap(dst, src, path); err != nil {
		return err
	}
	kt := dst.Type().Key()
	srcMeta := property.Bounded(src.Type(), d.root)
	for _, sf := range srcMeta.Fields {
		if sf.Ignore {
			continue
		}
		p := appendPath(path, sf.Name)
		v := d.filters.check(p, d.eq)
		if v == skip {
			continue
		}
		if _, ok := d.specials[joinPath(p)]; ok {
			continue
		}
		sv, ok := property.Value(src, sf)
		if !ok || (d.semantic.merge() && isNull(indirect(sv))) {
			continue
		}
		if err := d.entry(dst, kt, sf.Name, sv, p, v); err != nil {
			return err
		}
	}
	return d.specialEntries(dst, kt, path)
}

func (d *dataMapper) entry(dst reflect.Value, kt reflect.Type, name string, sv reflect.Value, p []string, v verdict) error {
	key, err := d.mapKey(kt, name)
	if err == nil {
		err = d.mapEntry(dst, key, sv, p, v)
	}
	if err != nil {
		return d.fail(p, err)
	}
	return nil
}

// specialEntries writes the explicit mappings whose target is a key of the map at path.
func (d *dataMapper) specialEntries(dst reflect.Value, kt reflect.Type, path []string) error {
	prefix := joinPath(path)
	targets := make([]string, 0, len(d.specials))
	for t := range d.specials {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	for _, t := range targets {
		name := t
		if prefix != "" {
			if !strings.HasPrefix(t, prefix+".") {
				continue
			}
			name = t[len(prefix)+1:]
		}
		if strings.ContainsAny(name, ".[") {
			continue
		}
		p := appendPath(path, name)
		v := d.filters.check(p, d.eq)
		if v == skip {
			continue
		}
		sv, _, err := d.special(p)
		if err == nil && d.semantic.merge() && isNull(indirect(sv)) {
			continue
		}
		if err == nil {
			err = d.entry(dst, kt, name, sv, p, v)
		}
		if err != nil {
			if err := d.fail(p, err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *dataMapper) mapToMap(dst, src reflect.Value, path []string) error {
	if done, err := d.targetMap(dst, src, path); done || err != nil {
		return err
	}
	kt := dst.Type().Key()
	iter := src.MapRange()
	for iter.Next() {
		k := indirect(iter.Key())
		name := fmt.Sprint(k.Interface())
		p := appendPath(path, name)
		v := d.filters.check(p, d.eq)
		if v == skip {
			continue
		}
		if _, ok := d.specials[joinPath(p)]; ok {
			continue
		}
		if d.semantic.merge() && isNull(indirect(iter.Value())) {
			continue
		}
		key, ok := fit(k, kt)
		var err error
		if !ok {
			key, err = d.mapKey(kt, name)
		}
		if err == nil {
			err = d.mapEntry(dst, key, iter.Value(), p, v)
		}
		if err != nil {
			if err := d.fail(p, err); err != nil {
				return err
			}
		}
	}
	return d.specialEntries(dst, kt, path)
}

// listToList maps slices and arrays element by element. Merging into a slice appends.
// A top-level slice target long enough for the source is filled in place; a shorter one
// is replaced by a new slice and left untouched.
func (d *dataMapper) listToList(dst, src reflect.Value, path []string, v verdict) error {
	n := src.Len()
	dt := dst.Type()
	if dt.Kind() == reflect.Array {
		if n > dst.Len() {
			return &UnsupportedError{From: src.Type(), To: dt, Reason: strconv.Itoa(n) + " elements do not fit"}
		}
		for i := 0; i < n; i++ {
			if err := d.element(dst.Index(i), src.Index(i), path, v, i); err != nil {
				return err
			}
		}
		return nil
	}
	if src.Kind() == reflect.Slice && src.IsNil() && !d.semantic.merge() {
		dst.Set(reflect.Zero(dt))
		return nil
	}
	var key visitKey
	if d.semantic.deep() && src.Kind() == reflect.Slice && n > 0 {
		key = visitKey{ptr: src.Pointer(), n: n, src: src.Type(), dst: dt}
		if seen, ok := d.visited[key]; ok {
			dst.Set(seen)
			return nil
		}
	}
	var out reflect.Value
	offset := 0
	switch {
	case d.semantic.merge() && !dst.IsNil():
		offset = dst.Len()
		out = reflect.MakeSlice(dt, offset+n, offset+n)
		reflect.Copy(out, dst)
	case len(path) == 0 && dst.Len() >= n:
		out = dst.Slice(0, n)
	default:
		out = reflect.MakeSlice(dt, n, n)
	}
	if key.src != nil {
		d.visited[key] = out
	}
	for i := 0; i < n; i++ {
		if err := d.element(out.Index(offset+i), src.Index(i), path, v, i); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

func (d *dataMapper) element(dst, src reflect.Value, path []string, v verdict, i int) error {
	if err := d.transfer(dst, src, path, v); err != nil {
		var me *MappingError
		if errors.As(err, &me) {
			return err
		}
		return d.fail(appendPath(path, "["+strconv.Itoa(i)+"]"), err)
	}
	return nil
}

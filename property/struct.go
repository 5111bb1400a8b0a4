// Package property is the reflective accessor layer used by the mapping engine.
//
// It builds and caches per-type struct metadata (exported fields, embedded struct
// flattening, tag handling, keyword forms) and resolves dotted/bracketed property
// paths such as "address.lines[1]" or "attrs.colour" into Accessor values that read
// and write the addressed property on an instance.
//
// All caches are safe for concurrent use. Population races are harmless: entries are
// immutable once built and the first stored entry wins.
package property

import (
	"reflect"
	"strings"
	"sync"

	"github.com/Station-Manager/mapper/keyword"
)

// Tag is the struct tag key read by this package.
//
//	Password string `mapping:"-"`       // never read or written
//	Token    string `mapping:"ignore"`  // alternative syntax
const Tag = "mapping"

// Field describes one exported, possibly promoted, struct field.
type Field struct {
	Name     string
	JSONName string
	Keyword  string
	Index    []int
	Type     reflect.Type
	Ignore   bool

	// owners is the embedding chain from the outer struct down to the declaring struct.
	owners []reflect.Type
}

// Owner returns the struct type that declares the field.
func (f *Field) Owner() reflect.Type { return f.owners[len(f.owners)-1] }

// Depth returns the embedding depth of the field; 0 for fields declared on the outer type.
func (f *Field) Depth() int { return len(f.owners) - 1 }

// Struct is the cached metadata of a struct type.
type Struct struct {
	Type   reflect.Type
	Fields []*Field

	byName    map[string]*Field
	byJSON    map[string]*Field
	byKeyword map[string]*Field
}

// Field returns the field with the given Go name.
func (s *Struct) Field(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// FieldByJSONName returns the field whose json tag name is name.
func (s *Struct) FieldByJSONName(name string) (*Field, bool) {
	f, ok := s.byJSON[name]
	return f, ok
}

// FieldByKeyword returns the first field whose name or json tag name normalizes to kw.
func (s *Struct) FieldByKeyword(kw string) (*Field, bool) {
	f, ok := s.byKeyword[kw]
	return f, ok
}

type boundKey struct {
	typ  reflect.Type
	root reflect.Type
}

var (
	structCache sync.Map // map[reflect.Type]*Struct
	boundCache  sync.Map // map[boundKey]*Struct
)

// Of returns the metadata of t, which must be a struct or a pointer to a struct.
// It returns nil for other kinds.
func Of(t reflect.Type) *Struct {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := structCache.Load(t); ok {
		return cached.(*Struct)
	}
	var fields []*Field
	collect(t, nil, []reflect.Type{t}, &fields)
	s := index(t, promote(fields))
	actual, _ := structCache.LoadOrStore(t, s)
	return actual.(*Struct)
}

// Bounded returns the metadata of t restricted to fields declared by the types between
// t and root inclusive. Fields that root itself obtains by embedding other structs are
// excluded. A nil root, or a root that t does not embed, yields Of(t).
func Bounded(t, root reflect.Type) *Struct {
	full := Of(t)
	if full == nil || root == nil {
		return full
	}
	for root.Kind() == reflect.Pointer {
		root = root.Elem()
	}
	key := boundKey{typ: full.Type, root: root}
	if cached, ok := boundCache.Load(key); ok {
		return cached.(*Struct)
	}
	kept := make([]*Field, 0, len(full.Fields))
	for _, f := range full.Fields {
		if declaredAbove(f, root) {
			continue
		}
		kept = append(kept, f)
	}
	s := index(full.Type, kept)
	actual, _ := boundCache.LoadOrStore(key, s)
	return actual.(*Struct)
}

func declaredAbove(f *Field, root reflect.Type) bool {
	for i, o := range f.owners {
		if o == root {
			return i < len(f.owners)-1
		}
	}
	return false
}

func collect(typ reflect.Type, prefix []int, owners []reflect.Type, out *[]*Field) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		tag := sf.Tag.Get(Tag)
		ignore := tag == "ignore" || tag == "-"
		if sf.Anonymous && !ignore {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !inChain(owners, ft) {
				collect(ft, idx, append(append([]reflect.Type(nil), owners...), ft), out)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		jsonName := ""
		if jt, ok := sf.Tag.Lookup("json"); ok {
			if comma := strings.IndexByte(jt, ','); comma >= 0 {
				jt = jt[:comma]
			}
			if jt != "-" {
				jsonName = jt
			}
		}
		*out = append(*out, &Field{
			Name:     sf.Name,
			JSONName: jsonName,
			Keyword:  keyword.Of(sf.Name),
			Index:    idx,
			Type:     sf.Type,
			Ignore:   ignore,
			owners:   owners,
		})
	}
}

func inChain(owners []reflect.Type, t reflect.Type) bool {
	for _, o := range owners {
		if o == t {
			return true
		}
	}
	return false
}

// promote applies Go's selector rules: the shallowest field with a name wins, and
// names that collide at the same depth are dropped.
func promote(fields []*Field) []*Field {
	type best struct {
		f         *Field
		ambiguous bool
	}
	seen := make(map[string]*best, len(fields))
	for _, f := range fields {
		b, ok := seen[f.Name]
		switch {
		case !ok:
			seen[f.Name] = &best{f: f}
		case f.Depth() < b.f.Depth():
			b.f, b.ambiguous = f, false
		case f.Depth() == b.f.Depth():
			b.ambiguous = true
		}
	}
	out := make([]*Field, 0, len(fields))
	for _, f := range fields {
		if b := seen[f.Name]; b.f == f && !b.ambiguous {
			out = append(out, f)
		}
	}
	return out
}

func index(t reflect.Type, fields []*Field) *Struct {
	s := &Struct{
		Type:      t,
		Fields:    fields,
		byName:    make(map[string]*Field, len(fields)),
		byJSON:    make(map[string]*Field, len(fields)),
		byKeyword: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		s.byName[f.Name] = f
		if f.JSONName != "" {
			s.byJSON[f.JSONName] = f
		}
		if _, dup := s.byKeyword[f.Keyword]; !dup {
			s.byKeyword[f.Keyword] = f
		}
	}
	for _, f := range fields {
		if f.JSONName == "" {
			continue
		}
		if kw := keyword.Of(f.JSONName); kw != "" {
			if _, dup := s.byKeyword[kw]; !dup {
				s.byKeyword[kw] = f
			}
		}
	}
	return s
}

// Value reads field f of the struct value v, stopping at nil embedded pointers.
// The boolean is false when an embedded pointer on the way is nil.
func Value(v reflect.Value, f *Field) (reflect.Value, bool) {
	for i, x := range f.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// Settable returns field f of the addressable struct value v, allocating nil embedded
// pointers on the way. The boolean is false when the field cannot be set.
func Settable(v reflect.Value, f *Field) (reflect.Value, bool) {
	for i, x := range f.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, v.CanSet()
}

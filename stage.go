package mapper

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/Station-Manager/mapper/converters"
)

// MappingStage collects the configuration of one mapping. Configuration methods return
// the stage for chaining; To and ToType commit it. The first configuration error is kept
// and returned by the commit.
type MappingStage struct {
	m         *Mapper
	source    any
	semantic  Semantic
	rule      MappingRule
	root      reflect.Type
	cloneType reflect.Type

	specials           map[string]string
	filterSpec         string
	registry           *converters.Registry
	extra              []*converters.TypeConverter
	hints              map[reflect.Type]any
	fieldConverters    map[string]ConverterFunc
	validators         map[string]ValidatorFunc
	factory            InstanceFactory
	ignoreError        bool
	ignoreGlobalFilter bool
	logger             *slog.Logger

	err error
}

func (s *MappingStage) fail(err error) *MappingStage {
	if s.err == nil {
		s.err = err
	}
	return s
}

// StrictMatching matches fields by exact name, or by json tag name.
func (s *MappingStage) StrictMatching() *MappingStage { s.rule = StrictMatching; return s }

// KeywordMatching matches fields whose names normalize to the same keyword, so
// FirstName, first_name and FIRST_NAME all match.
func (s *MappingStage) KeywordMatching() *MappingStage { s.rule = KeywordMatching; return s }

// RootType limits the fields mapped to those declared down to the embedded struct type t.
// Fields of structs that t embeds are left alone.
func (s *MappingStage) RootType(t reflect.Type) *MappingStage {
	if t == nil {
		return s.fail(errors.New("root type must not be nil"))
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.root = t
	return s
}

// WithSpecialNameMappings maps target paths to source paths, overriding field matching.
// Paths are dotted and relative to the mapped values: {"Home.Zip": "Address.PostCode"}.
func (s *MappingStage) WithSpecialNameMappings(m map[string]string) *MappingStage {
	for target, source := range m {
		s.MapField(target, source)
	}
	return s
}

// MapField reads the target path from the source path.
func (s *MappingStage) MapField(target, source string) *MappingStage {
	if strings.TrimSpace(target) == "" || strings.TrimSpace(source) == "" {
		return s.fail(fmt.Errorf("invalid name mapping %q -> %q", source, target))
	}
	if s.specials == nil {
		s.specials = make(map[string]string)
	}
	s.specials[target] = source
	return s
}

// Filter restricts the fields mapped. spec is a comma separated list of names to
// include, or of "-" prefixed names to exclude; dotted names address nested fields.
// Repeated calls add to the filter.
func (s *MappingStage) Filter(spec string) *MappingStage {
	if s.filterSpec == "" {
		s.filterSpec = spec
	} else if spec != "" {
		s.filterSpec += "," + spec
	}
	return s
}

// WithConverter adds type converters used by this stage only. They shadow the
// registry of the mapper.
func (s *MappingStage) WithConverter(cs ...*converters.TypeConverter) *MappingStage {
	for _, c := range cs {
		if c == nil {
			return s.fail(errors.New("converter must not be nil"))
		}
	}
	s.extra = append(s.extra, cs...)
	return s
}

// CustomTypeConverters makes r the first registry consulted.
func (s *MappingStage) CustomTypeConverters(r *converters.Registry) *MappingStage {
	s.registry = r
	return s
}

// ConversionHint passes hint to converters producing values of type t.
func (s *MappingStage) ConversionHint(t reflect.Type, hint any) *MappingStage {
	if t == nil {
		return s.fail(errors.New("hint type must not be nil"))
	}
	if s.hints == nil {
		s.hints = make(map[reflect.Type]any)
	}
	s.hints[t] = hint
	return s
}

// WithFieldConverter converts the value of every target field called name with fn,
// instead of the type based conversion.
func (s *MappingStage) WithFieldConverter(name string, fn ConverterFunc) *MappingStage {
	if fn == nil {
		return s.fail(fmt.Errorf("converter for field %s must not be nil", name))
	}
	if s.fieldConverters == nil {
		s.fieldConverters = make(map[string]ConverterFunc)
	}
	s.fieldConverters[name] = fn
	return s
}

// WithValidator runs fn on every target field called name after it is written.
func (s *MappingStage) WithValidator(name string, fn ValidatorFunc) *MappingStage {
	if fn == nil {
		return s.fail(fmt.Errorf("validator for field %s must not be nil", name))
	}
	if s.validators == nil {
		s.validators = make(map[string]ValidatorFunc)
	}
	s.validators[name] = fn
	return s
}

// WithInstanceFactory sets the function allocating new pointers and maps.
func (s *MappingStage) WithInstanceFactory(f InstanceFactory) *MappingStage {
	s.factory = f
	return s
}

// IgnoreError skips fields that fail instead of aborting the mapping.
func (s *MappingStage) IgnoreError() *MappingStage { s.ignoreError = true; return s }

// IgnoreGlobalFilter maps without the global filter of the mapper.
func (s *MappingStage) IgnoreGlobalFilter() *MappingStage { s.ignoreGlobalFilter = true; return s }

// WithLogger sets the logger of this stage.
func (s *MappingStage) WithLogger(l *slog.Logger) *MappingStage { s.logger = l; return s }

func (s *MappingStage) build() (*dataMapper, error) {
	if s.err != nil {
		return nil, s.err
	}
	rule := s.rule
	if rule == DefaultMatching {
		rule = s.semantic.rule()
	}
	f, err := parseFilter(s.filterSpec, false)
	if err != nil {
		return nil, err
	}
	var fs filters
	if f != nil {
		fs = append(fs, f)
	}
	if g := s.m.globalFilter.Load(); g != nil && !s.ignoreGlobalFilter {
		fs = append(fs, g)
	}
	custom := s.registry
	if len(s.extra) > 0 {
		parent := custom
		if parent == nil {
			parent = s.m.registry
		}
		custom = parent.Child().Register(s.extra...)
	}
	logger := s.logger
	if logger == nil {
		logger = s.m.logger()
	}
	d := &dataMapper{
		m:               s.m,
		semantic:        s.semantic,
		rule:            rule,
		root:            s.root,
		filters:         fs,
		conv:            &conversion{custom: custom, base: s.m.registry, strict: rule == StrictMatching},
		hints:           s.hints,
		fieldConverters: s.fieldConverters,
		validators:      s.validators,
		factory:         s.factory,
		ignoreError:     s.ignoreError,
		logger:          logger,
	}
	if len(s.specials) > 0 {
		d.specials = s.specials
		d.specialParents = make(map[string]bool)
		for target := range s.specials {
			segs := splitFlatKey(target)
			for i := 0; i < len(segs); i++ {
				d.specialParents[joinPath(segs[:i])] = true
			}
		}
	}
	return d, nil
}

func (s *MappingStage) commit(d *dataMapper, dst reflect.Value) error {
	if isNilValue(s.source) {
		return ErrNilSource
	}
	return d.run(dst, reflect.ValueOf(s.source))
}

// To maps the source into target and returns the result. target is a non-nil pointer,
// a map, which is written in place, or a slice or array. Slices long enough for the
// source are filled in place; otherwise a new slice is returned. Arrays are copied
// into a slice, which is returned.
func (s *MappingStage) To(target any) (any, error) {
	d, err := s.build()
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrInvalidTarget
	}
	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, ErrInvalidTarget
		}
		if err := s.commit(d, rv.Elem()); err != nil {
			return nil, err
		}
		return target, nil
	case reflect.Map, reflect.Slice:
		holder := reflect.New(rv.Type()).Elem()
		holder.Set(rv)
		if err := s.commit(d, holder); err != nil {
			return nil, err
		}
		return holder.Interface(), nil
	case reflect.Array:
		holder := reflect.MakeSlice(reflect.SliceOf(rv.Type().Elem()), rv.Len(), rv.Len())
		reflect.Copy(holder, rv)
		slot := reflect.New(holder.Type()).Elem()
		slot.Set(holder)
		if err := s.commit(d, slot); err != nil {
			return nil, err
		}
		return slot.Interface(), nil
	}
	return nil, ErrInvalidTarget
}

// ToType maps the source into a new value of type t. A pointer type yields a pointer to
// a new value. For stages started by Clone, a nil t means the type of the source.
func (s *MappingStage) ToType(t reflect.Type) (any, error) {
	d, err := s.build()
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = s.cloneType
	}
	if t == nil {
		return nil, ErrInvalidTarget
	}
	root, err := d.newInstance(t)
	if err != nil {
		return nil, err
	}
	if t.Kind() == reflect.Pointer {
		if err := s.commit(d, root.Elem()); err != nil {
			return nil, err
		}
		return root.Interface(), nil
	}
	holder := reflect.New(t).Elem()
	holder.Set(root)
	if err := s.commit(d, holder); err != nil {
		return nil, err
	}
	return holder.Interface(), nil
}

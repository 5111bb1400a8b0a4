package mapper

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/Station-Manager/mapper/converters"
	"github.com/Station-Manager/mapper/converters/common"
	"github.com/Station-Manager/mapper/property"
)

var standardRegistry = sync.OnceValue(func() *converters.Registry {
	r := converters.Default().Child()
	common.Register(r)
	return r
})

// Mapper creates conversion and mapping stages sharing a converter registry, a logger
// and a global filter. A Mapper is safe for concurrent use; the stages it returns are not.
type Mapper struct {
	options      Options
	registry     *converters.Registry
	globalFilter atomic.Pointer[filter]
	boolMapPool  sync.Pool // Pool for map[string]bool reuse
}

// New creates a Mapper with default options.
func New() *Mapper { return NewWithOptions() }

// NewWithOptions creates a new Mapper with provided options. An invalid global filter
// spec is logged at warn level and ignored; use SetGlobalFilter to get the parse error.
func NewWithOptions(opts ...Option) *Mapper {
	m := &Mapper{}
	optsState := Options{OverwritePolicy: PreferFields}
	for _, f := range opts {
		f(&optsState)
	}
	m.options = optsState
	m.registry = optsState.Registry
	if m.registry == nil {
		m.registry = standardRegistry()
	}
	if f, err := parseFilter(optsState.GlobalFilter, true); err == nil {
		m.globalFilter.Store(f)
	} else {
		m.logger().Warn("mapper: ignoring invalid global filter", "filter", optsState.GlobalFilter, "error", err)
	}
	m.boolMapPool = sync.Pool{New: func() interface{} { return (map[string]bool)(nil) }}
	return m
}

var defaultMapper = sync.OnceValue(New)

// Default returns the process-wide Mapper used by the package level functions.
func Default() *Mapper { return defaultMapper() }

// Registry returns the registry the mapper converts with.
func (m *Mapper) Registry() *converters.Registry { return m.registry }

// SetGlobalFilter replaces the filter applied to every mapping of m. Undotted names
// match a field at any depth. The empty spec clears the filter.
func (m *Mapper) SetGlobalFilter(spec string) error {
	f, err := parseFilter(spec, true)
	if err != nil {
		return fmt.Errorf("global filter: %w", err)
	}
	m.globalFilter.Store(f)
	return nil
}

// Warm pre-builds property metadata for provided example values or types (pass either a
// value, a *T, or a reflect.Type).
func (m *Mapper) Warm(examples ...any) {
	for _, e := range examples {
		if e == nil {
			continue
		}
		t, ok := e.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(e)
		}
		_ = property.Of(t)
	}
}

func (m *Mapper) logger() *slog.Logger {
	if m.options.Logger != nil {
		return m.options.Logger
	}
	return slog.Default()
}

func (m *Mapper) getBoolMap(capHint int) map[string]bool {
	pooled := m.boolMapPool.Get().(map[string]bool)
	if pooled == nil {
		return make(map[string]bool, capHint)
	}
	for k := range pooled {
		delete(pooled, k)
	}
	return pooled
}

func (m *Mapper) putBoolMap(v map[string]bool) {
	if v != nil && len(v) <= 128 {
		m.boolMapPool.Put(v)
	}
}

func (m *Mapper) stage(source any, s Semantic) *MappingStage {
	return &MappingStage{m: m, source: source, semantic: s, rule: m.options.MappingRule, ignoreError: m.options.IgnoreErrors}
}

// Copy starts a shallow copy of source.
func (m *Mapper) Copy(source any) *MappingStage { return m.stage(source, SemanticShallowCopy) }

// DeepCopy starts a deep copy of source.
func (m *Mapper) DeepCopy(source any) *MappingStage { return m.stage(source, SemanticDeepCopy) }

// Merge starts a merge of source into a target.
func (m *Mapper) Merge(source any) *MappingStage { return m.stage(source, SemanticMerge) }

// Map starts a keyword matching deep copy of source.
func (m *Mapper) Map(source any) *MappingStage { return m.stage(source, SemanticMap) }

// MergeMap starts a keyword matching merge of source.
func (m *Mapper) MergeMap(source any) *MappingStage { return m.stage(source, SemanticMergeMap) }

// FlatCopy starts a flat copy of source.
func (m *Mapper) FlatCopy(source any) *MappingStage { return m.stage(source, SemanticFlatCopy) }

// Clone starts a deep copy of source into a new value of its own type; commit it with
// ToType(nil) or MapTo.
func (m *Mapper) Clone(source any) *MappingStage {
	s := m.stage(source, SemanticDeepCopy)
	s.cloneType = reflect.TypeOf(source)
	return s
}

// Convert starts a conversion of v.
func (m *Mapper) Convert(v any) *ConvertStage { return &ConvertStage{m: m, src: v} }

// SetGlobalFilter replaces the global filter of the default mapper.
func SetGlobalFilter(spec string) error { return Default().SetGlobalFilter(spec) }

// Copy starts a shallow copy of source with the default mapper.
func Copy(source any) *MappingStage { return Default().Copy(source) }

// DeepCopy starts a deep copy of source with the default mapper.
func DeepCopy(source any) *MappingStage { return Default().DeepCopy(source) }

// Merge starts a merge of source with the default mapper.
func Merge(source any) *MappingStage { return Default().Merge(source) }

// Map starts a keyword matching deep copy of source with the default mapper.
func Map(source any) *MappingStage { return Default().Map(source) }

// MergeMap starts a keyword matching merge of source with the default mapper.
func MergeMap(source any) *MappingStage { return Default().MergeMap(source) }

// FlatCopy starts a flat copy of source with the default mapper.
func FlatCopy(source any) *MappingStage { return Default().FlatCopy(source) }

// Clone starts a clone of source with the default mapper.
func Clone(source any) *MappingStage { return Default().Clone(source) }

// Convert starts a conversion of v with the default mapper.
func Convert(v any) *ConvertStage { return Default().Convert(v) }

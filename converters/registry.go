package converters

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// MaxHops bounds the number of registered converters Resolve will chain together.
const MaxHops = 2

// Pair is the registry key of a converter.
type Pair struct {
	From reflect.Type
	To   reflect.Type
}

// Registry maps type pairs to converters. Reads are lock free; writers copy the
// table and swap it atomically, so a Registry may be read and extended concurrently.
type Registry struct {
	parent  *Registry
	mu      sync.Mutex // serialises writers
	gen     atomic.Uint64
	entries atomic.Pointer[map[Pair]*TypeConverter]
	enums   atomic.Pointer[map[reflect.Type]*Enum]
	derived sync.Map // map[Pair]derivedEntry
}

type derivedEntry struct {
	conv *TypeConverter
	gen  uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	entries := make(map[Pair]*TypeConverter)
	r.entries.Store(&entries)
	enums := make(map[reflect.Type]*Enum)
	r.enums.Store(&enums)
	return r
}

// Child returns an empty registry whose lookups fall back to r. Entries registered on
// the child shadow those of r.
func (r *Registry) Child() *Registry {
	c := NewRegistry()
	c.parent = r
	return c
}

// Parent returns the registry r falls back to, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Register adds converters, replacing any entry with the same Pair.
func (r *Registry) Register(cs ...*TypeConverter) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := *r.entries.Load()
	next := make(map[Pair]*TypeConverter, len(old)+len(cs))
	for k, v := range old {
		next[k] = v
	}
	for _, c := range cs {
		if c == nil {
			continue
		}
		next[c.Pair()] = c
	}
	r.entries.Store(&next)
	r.gen.Add(1)
	return r
}

// Get returns the converter registered for exactly (from, to) on r or its ancestors.
func (r *Registry) Get(from, to reflect.Type) (*TypeConverter, bool) {
	key := Pair{From: from, To: to}
	for x := r; x != nil; x = x.parent {
		if c, ok := (*x.entries.Load())[key]; ok {
			return c, true
		}
	}
	return nil, false
}

// Resolve returns a converter for (from, to): the exact entry when there is one,
// otherwise the shortest chain of at most MaxHops converters, where each step may use
// an entry registered for an interface the current type implements. Ties are broken by
// preferring exact source types, then by type name. Results are cached until r or one
// of its ancestors changes.
func (r *Registry) Resolve(from, to reflect.Type) (*TypeConverter, bool) {
	if c, ok := r.Get(from, to); ok {
		return c, true
	}
	key := Pair{From: from, To: to}
	gen := r.generation()
	if d, ok := r.derived.Load(key); ok {
		if de := d.(derivedEntry); de.gen == gen {
			return de.conv, de.conv != nil
		}
	}
	c := r.search(from, to)
	r.derived.Store(key, derivedEntry{conv: c, gen: gen})
	return c, c != nil
}

// Pairs lists the pairs visible from r, sorted by type name.
func (r *Registry) Pairs() []Pair {
	all := r.visible()
	out := make([]Pair, 0, len(all))
	for k := range all {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if a, b := out[i].From.String(), out[j].From.String(); a != b {
			return a < b
		}
		return out[i].To.String() < out[j].To.String()
	})
	return out
}

func (r *Registry) generation() uint64 {
	var g uint64
	for x := r; x != nil; x = x.parent {
		g += x.gen.Load()
	}
	return g
}

func (r *Registry) visible() map[Pair]*TypeConverter {
	var chain []*Registry
	for x := r; x != nil; x = x.parent {
		chain = append(chain, x)
	}
	all := make(map[Pair]*TypeConverter)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range *chain[i].entries.Load() {
			all[k] = v
		}
	}
	return all
}

func (r *Registry) search(from, to reflect.Type) *TypeConverter {
	all := r.visible()
	type path struct {
		at   reflect.Type
		conv *TypeConverter
	}
	frontier := []path{{at: from}}
	seen := map[reflect.Type]bool{from: true}
	for depth := 0; depth < MaxHops; depth++ {
		var next []path
		for _, p := range frontier {
			for _, c := range outgoing(all, p.at) {
				chained := c
				if p.conv != nil {
					chained = p.conv.Chain(c)
				}
				if c.to == to {
					return chained
				}
				if seen[c.to] {
					continue
				}
				seen[c.to] = true
				next = append(next, path{at: c.to, conv: chained})
			}
		}
		frontier = next
	}
	return nil
}

// outgoing lists converters usable on values of type t.
func outgoing(all map[Pair]*TypeConverter, t reflect.Type) []*TypeConverter {
	var out []*TypeConverter
	for k, c := range all {
		if k.From == t || (k.From.Kind() == reflect.Interface && t.Implements(k.From)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].from == t, out[j].from == t
		if ei != ej {
			return ei
		}
		if a, b := out[i].to.String(), out[j].to.String(); a != b {
			return a < b
		}
		return out[i].from.String() < out[j].from.String()
	})
	return out
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
})

// Default returns the process-wide registry holding the built-in converters. It is
// built on first use. Converters registered on it are visible to every caller; use
// Child for call-scoped additions.
func Default() *Registry { return defaultRegistry() }

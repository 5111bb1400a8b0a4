package mapper

import (
	"fmt"
	"strings"
)

type verdict int

const (
	skip    verdict = iota
	partial         // only some descendants pass
	whole
)

// filter is a parsed filter spec: comma separated names to include, or "-" prefixed
// names to exclude. Dotted names address nested fields.
type filter struct {
	include    [][]string
	exclude    [][]string
	anyInclude []string
	anyExclude []string
}

// parseFilter parses spec. With anyDepth set, undotted names match a field at any
// depth instead of a top-level field only.
func parseFilter(spec string, anyDepth bool) (*filter, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	f := &filter{}
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		exclude := strings.HasPrefix(item, "-")
		if exclude {
			item = strings.TrimSpace(item[1:])
		} else {
			item = strings.TrimPrefix(item, "+")
		}
		path := strings.Split(item, ".")
		for _, p := range path {
			if p == "" {
				return nil, fmt.Errorf("invalid filter entry %q", item)
			}
		}
		switch {
		case anyDepth && len(path) == 1 && exclude:
			f.anyExclude = append(f.anyExclude, path[0])
		case anyDepth && len(path) == 1:
			f.anyInclude = append(f.anyInclude, path[0])
		case exclude:
			f.exclude = append(f.exclude, path)
		default:
			f.include = append(f.include, path)
		}
	}
	return f, nil
}

func hasPrefix(path, prefix []string, eq func(a, b string) bool) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if !eq(path[i], prefix[i]) {
			return false
		}
	}
	return true
}

func containsName(path []string, name string, eq func(a, b string) bool) bool {
	for _, p := range path {
		if eq(p, name) {
			return true
		}
	}
	return false
}

func (f *filter) check(path []string, eq func(a, b string) bool) verdict {
	if f == nil {
		return whole
	}
	for _, ex := range f.exclude {
		if hasPrefix(path, ex, eq) {
			return skip
		}
	}
	for _, name := range f.anyExclude {
		if containsName(path, name, eq) {
			return skip
		}
	}
	if len(f.include) == 0 && len(f.anyInclude) == 0 {
		return whole
	}
	for _, inc := range f.include {
		if hasPrefix(path, inc, eq) {
			return whole
		}
	}
	for _, name := range f.anyInclude {
		if containsName(path, name, eq) {
			return whole
		}
	}
	for _, inc := range f.include {
		if len(inc) > len(path) && hasPrefix(inc, path, eq) {
			return partial
		}
	}
	if len(f.anyInclude) > 0 {
		return partial
	}
	return skip
}

// excludesBelow reports whether some exclusion may apply to a descendant of path.
func (f *filter) excludesBelow(path []string, eq func(a, b string) bool) bool {
	if f == nil {
		return false
	}
	if len(f.anyExclude) > 0 {
		return true
	}
	for _, ex := range f.exclude {
		if len(ex) > len(path) && hasPrefix(ex, path, eq) {
			return true
		}
	}
	return false
}

// filters combines the stage filter and the global filter; a path must pass both.
type filters []*filter

func (fs filters) check(path []string, eq func(a, b string) bool) verdict {
	v := whole
	for _, f := range fs {
		if fv := f.check(path, eq); fv < v {
			v = fv
		}
	}
	return v
}

func (fs filters) excludesBelow(path []string, eq func(a, b string) bool) bool {
	for _, f := range fs {
		if f.excludesBelow(path, eq) {
			return true
		}
	}
	return false
}

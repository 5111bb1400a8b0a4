package mapper

import "strconv"

// MappingRule selects how target field names are matched with source field names.
type MappingRule int

const (
	// DefaultMatching uses the rule of the mapping semantic: keyword matching for Map
	// and MergeMap, strict matching otherwise.
	DefaultMatching MappingRule = iota
	// StrictMatching requires equal names (or equal json tag names).
	StrictMatching
	// KeywordMatching compares names in keyword form, so fooBar, foo_bar and FooBar match.
	KeywordMatching
)

func (r MappingRule) String() string {
	switch r {
	case StrictMatching:
		return "STRICT_MATCHING"
	case KeywordMatching:
		return "KEYWORD_MATCHING"
	}
	return "DEFAULT_MATCHING"
}

// Semantic is the copy policy of a mapping.
type Semantic int

const (
	// SemanticShallowCopy assigns assignable values by reference.
	SemanticShallowCopy Semantic = iota
	// SemanticDeepCopy clones pointers, maps and slices recursively.
	SemanticDeepCopy
	// SemanticFlatCopy deep copies, flattening nested values into dotted keys of a map target
	// and expanding dotted keys of a map source into a struct target.
	SemanticFlatCopy
	// SemanticMerge deep copies non-null source values into the target, recursing into values
	// the target already holds and appending to slices.
	SemanticMerge
	// SemanticMap deep copies with keyword matching.
	SemanticMap
	// SemanticMergeMap merges with keyword matching.
	SemanticMergeMap
)

func (s Semantic) String() string {
	switch s {
	case SemanticShallowCopy:
		return "SHALLOW_COPY"
	case SemanticDeepCopy:
		return "DEEP_COPY"
	case SemanticFlatCopy:
		return "FLAT_COPY"
	case SemanticMerge:
		return "MERGE"
	case SemanticMap:
		return "MAP"
	case SemanticMergeMap:
		return "MERGE_MAP"
	}
	return "Semantic(" + strconv.Itoa(int(s)) + ")"
}

func (s Semantic) deep() bool  { return s != SemanticShallowCopy }
func (s Semantic) merge() bool { return s == SemanticMerge || s == SemanticMergeMap }

func (s Semantic) rule() MappingRule {
	if s == SemanticMap || s == SemanticMergeMap {
		return KeywordMatching
	}
	return StrictMatching
}

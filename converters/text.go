package converters

import (
	"fmt"
	"strings"
)

// SplitList splits a comma separated list, trimming blanks around items. The empty
// string yields an empty, non-nil slice.
func SplitList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// JoinList joins items with a comma.
func JoinList(items []string) (string, error) {
	return strings.Join(items, ","), nil
}

func registerText(r *Registry) {
	r.Register(
		New(func(s string) ([]byte, error) { return []byte(s), nil }),
		New(func(b []byte) (string, error) { return string(b), nil }),
		New(func(s string) ([]rune, error) { return []rune(s), nil }),
		New(func(rs []rune) (string, error) { return string(rs), nil }),
		New(SplitList),
		New(JoinList),
		New(func(s fmt.Stringer) (string, error) { return s.String(), nil }),
		New(func(e error) (string, error) { return e.Error(), nil }),
	)
}

package converters

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64
type fahrenheit float64
type kelvin float64

type label struct{ text string }

func (l label) String() string { return "label:" + l.text }

func temperatureRegistry() *Registry {
	r := NewRegistry()
	r.Register(
		New(func(c celsius) (fahrenheit, error) { return fahrenheit(c*9/5 + 32), nil }),
		New(func(f fahrenheit) (string, error) { return strconv.FormatFloat(float64(f), 'f', 1, 64), nil }),
		New(func(s string) (kelvin, error) {
			f, err := strconv.ParseFloat(s, 64)
			return kelvin(f), err
		}),
	)
	return r
}

func TestRegistry_GetExact(t *testing.T) {
	r := temperatureRegistry()
	c, ok := r.Get(reflect.TypeFor[celsius](), reflect.TypeFor[fahrenheit]())
	require.True(t, ok)
	assert.Equal(t, 1, c.Hops())
	out, err := c.Convert(celsius(100))
	require.NoError(t, err)
	assert.Equal(t, fahrenheit(212), out)

	_, ok = r.Get(reflect.TypeFor[celsius](), reflect.TypeFor[string]())
	assert.False(t, ok, "Get never chains")
}

func TestRegistry_ResolveChains(t *testing.T) {
	r := temperatureRegistry()
	c, ok := r.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[string]())
	require.True(t, ok)
	assert.Equal(t, 2, c.Hops())
	assert.Equal(t, "converters.celsius -> string", c.String())
	out, err := c.Convert(celsius(0))
	require.NoError(t, err)
	assert.Equal(t, "32.0", out)

	// three registered steps are beyond MaxHops
	_, ok = r.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[kelvin]())
	assert.False(t, ok)
}

func TestRegistry_ResolveSeesLaterRegistrations(t *testing.T) {
	r := temperatureRegistry()
	_, ok := r.Resolve(reflect.TypeFor[kelvin](), reflect.TypeFor[string]())
	require.False(t, ok)

	r.Register(New(func(k kelvin) (celsius, error) { return celsius(k - 273.15), nil }))
	c, ok := r.Resolve(reflect.TypeFor[kelvin](), reflect.TypeFor[fahrenheit]())
	require.True(t, ok)
	out, err := c.Convert(kelvin(273.15))
	require.NoError(t, err)
	assert.InDelta(t, 32.0, float64(out.(fahrenheit)), 1e-9)
}

func TestRegistry_InterfaceEntries(t *testing.T) {
	r := NewRegistry()
	r.Register(New(func(s fmt.Stringer) (string, error) { return s.String(), nil }))

	c, ok := r.Resolve(reflect.TypeFor[label](), reflect.TypeFor[string]())
	require.True(t, ok)
	out, err := c.Convert(label{text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "label:x", out)
}

func TestRegistry_ChildShadowsParent(t *testing.T) {
	parent := temperatureRegistry()
	child := parent.Child()
	assert.Same(t, parent, child.Parent())

	child.Register(New(func(f fahrenheit) (string, error) { return "hot", nil }))

	c, ok := child.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[string]())
	require.True(t, ok)
	out, err := c.Convert(celsius(40))
	require.NoError(t, err)
	assert.Equal(t, "hot", out)

	c, ok = parent.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[string]())
	require.True(t, ok)
	out, err = c.Convert(celsius(40))
	require.NoError(t, err)
	assert.Equal(t, "104.0", out)
}

func TestRegistry_ParentChangesReachChildCache(t *testing.T) {
	parent := NewRegistry()
	child := parent.Child()
	_, ok := child.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[fahrenheit]())
	require.False(t, ok)

	parent.Register(New(func(c celsius) (fahrenheit, error) { return fahrenheit(c), nil }))
	_, ok = child.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[fahrenheit]())
	assert.True(t, ok)
}

func TestRegistry_Pairs(t *testing.T) {
	pairs := temperatureRegistry().Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, reflect.TypeFor[celsius](), pairs[0].From)
	assert.Equal(t, reflect.TypeFor[fahrenheit](), pairs[1].From)
	assert.Equal(t, reflect.TypeFor[string](), pairs[2].From)
}

func TestRegistry_RegisterNilIgnored(t *testing.T) {
	r := NewRegistry().Register(nil)
	assert.Empty(t, r.Pairs())
}

func TestTypeConverter_WrongSourceType(t *testing.T) {
	c := New(func(c celsius) (fahrenheit, error) { return fahrenheit(c), nil })
	_, err := c.Convert("warm")
	assert.Error(t, err)
}

func TestTypeConverter_ChainShortCircuitsNil(t *testing.T) {
	first := New(func(s string) (*label, error) { return nil, nil })
	called := false
	second := New(func(l *label) (string, error) {
		called = true
		return "never", nil
	})
	out, err := first.Chain(second).Convert("x")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, called)
}

func TestTypeConverter_HintReachesLastStep(t *testing.T) {
	var seen []any
	first := NewWithHint(func(s string, hint any) (int, error) {
		seen = append(seen, hint)
		return len(s), nil
	})
	second := NewWithHint(func(n int, hint any) (string, error) {
		seen = append(seen, hint)
		return strconv.Itoa(n), nil
	})
	out, err := first.Chain(second).ConvertWithHint("abc", "h")
	require.NoError(t, err)
	assert.Equal(t, "3", out)
	assert.Equal(t, []any{nil, "h"}, seen)
}

func TestFromFunc(t *testing.T) {
	c := FromFunc[string, int](func(src any) (any, error) { return len(src.(string)), nil })
	assert.Equal(t, Pair{From: reflect.TypeFor[string](), To: reflect.TypeFor[int]()}, c.Pair())
	out, err := c.Convert("four")
	require.NoError(t, err)
	assert.Equal(t, 4, out)
}

func TestRegistry_ConcurrentRegisterAndResolve(t *testing.T) {
	t.Parallel()
	r := temperatureRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(New(func(k kelvin) (celsius, error) { return celsius(k - 273.15), nil }))
		}()
		go func() {
			defer wg.Done()
			c, ok := r.Resolve(reflect.TypeFor[celsius](), reflect.TypeFor[string]())
			if assert.True(t, ok) {
				_, err := c.Convert(celsius(1))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	_, ok := r.Get(reflect.TypeFor[kelvin](), reflect.TypeFor[celsius]())
	assert.True(t, ok)
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	_, ok := Default().Get(reflect.TypeFor[string](), reflect.TypeFor[int]())
	assert.True(t, ok)
}

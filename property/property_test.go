package property

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	ID      int
	Created string
}

type Audited struct {
	Base
	Owner string
}

type Account struct {
	*Audited
	Name     string `json:"account_name"`
	Password string `mapping:"-"`
	secret   string
}

type Address struct {
	Street string
	Lines  []string
}

type Person struct {
	Name    string
	Home    *Address
	Tags    map[string]string
	Scores  []int
	Fixed   [2]int
	Extra   any
	ByIndex map[int]string
}

func TestOf_FlattensEmbedded(t *testing.T) {
	s := Of(reflect.TypeOf(&Account{}))
	require.NotNil(t, s)

	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"ID", "Created", "Owner", "Name", "Password"}, names)

	f, ok := s.Field("ID")
	require.True(t, ok)
	assert.Equal(t, 2, f.Depth())
	assert.Equal(t, reflect.TypeOf(Base{}), f.Owner())

	pw, ok := s.Field("Password")
	require.True(t, ok)
	assert.True(t, pw.Ignore)

	byJSON, ok := s.FieldByJSONName("account_name")
	require.True(t, ok)
	assert.Equal(t, "Name", byJSON.Name)

	byKw, ok := s.FieldByKeyword("account_name")
	require.True(t, ok)
	assert.Equal(t, "Name", byKw.Name)

	_, ok = s.Field("secret")
	assert.False(t, ok)
}

func TestOf_NonStruct(t *testing.T) {
	assert.Nil(t, Of(reflect.TypeOf(1)))
	assert.Nil(t, Of(reflect.TypeOf(map[string]int{})))
}

func TestOf_AmbiguousNamesDropped(t *testing.T) {
	type A struct{ X, OnlyA int }
	type B struct{ X, OnlyB int }
	type C struct {
		A
		B
	}
	s := Of(reflect.TypeOf(C{}))
	_, ok := s.Field("X")
	assert.False(t, ok)
	_, ok = s.Field("OnlyA")
	assert.True(t, ok)
	_, ok = s.Field("OnlyB")
	assert.True(t, ok)
}

func TestBounded_ExcludesFieldsAboveRoot(t *testing.T) {
	s := Bounded(reflect.TypeOf(Account{}), reflect.TypeOf(Audited{}))
	_, ok := s.Field("ID")
	assert.False(t, ok, "Base fields sit above the root")
	_, ok = s.Field("Owner")
	assert.True(t, ok)
	_, ok = s.Field("Name")
	assert.True(t, ok)

	// a root the type does not embed leaves every field in place
	all := Bounded(reflect.TypeOf(Account{}), reflect.TypeOf(Address{}))
	assert.Len(t, all.Fields, len(Of(reflect.TypeOf(Account{})).Fields))
}

func TestValue_NilEmbeddedPointer(t *testing.T) {
	s := Of(reflect.TypeOf(Account{}))
	f, _ := s.Field("Owner")
	_, ok := Value(reflect.ValueOf(Account{}), f)
	assert.False(t, ok)

	acc := &Account{}
	fv, ok := Settable(reflect.ValueOf(acc).Elem(), f)
	require.True(t, ok)
	fv.SetString("root")
	require.NotNil(t, acc.Audited)
	assert.Equal(t, "root", acc.Owner)
}

func TestFor_DeclaredTypes(t *testing.T) {
	tests := []struct {
		path string
		want reflect.Type
	}{
		{path: "Name", want: reflect.TypeOf("")},
		{path: "Home.Street", want: reflect.TypeOf("")},
		{path: "Home.Lines[3]", want: reflect.TypeOf("")},
		{path: "Tags.colour", want: reflect.TypeOf("")},
		{path: "Tags[colour]", want: reflect.TypeOf("")},
		{path: "Scores[0]", want: reflect.TypeOf(0)},
		{path: "ByIndex[4]", want: reflect.TypeOf("")},
		{path: "Extra.anything", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			a, err := For(reflect.TypeOf(Person{}), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Type())
			assert.Equal(t, tt.path, a.Path())
		})
	}
}

func TestFor_Errors(t *testing.T) {
	for _, path := range []string{"", "Nope", "Home..Street", "Scores.x", "Home.Lines[", "Name.Deeper"} {
		t.Run(path, func(t *testing.T) {
			_, err := For(reflect.TypeOf(Person{}), path)
			require.Error(t, err)
			var ae *AccessError
			assert.ErrorAs(t, err, &ae)
		})
	}
}

func TestAccessor_Get(t *testing.T) {
	p := Person{
		Name:   "Ann",
		Home:   &Address{Street: "Main", Lines: []string{"a", "b"}},
		Tags:   map[string]string{"colour": "red"},
		Scores: []int{7},
		Extra:  map[string]any{"k": 1},
	}
	get := func(path string) reflect.Value {
		a, err := For(reflect.TypeOf(p), path)
		require.NoError(t, err)
		v, err := a.Get(reflect.ValueOf(p))
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Main", get("Home.Street").Interface())
	assert.Equal(t, "b", get("Home.Lines[1]").Interface())
	assert.Equal(t, "red", get("Tags.colour").Interface())
	assert.Equal(t, 7, get("Scores[0]").Interface())
	assert.Equal(t, 1, get("Extra.k").Interface())
	assert.False(t, get("Scores[5]").IsValid())
	assert.False(t, get("Tags.missing").IsValid())

	empty := Person{}
	a, err := For(reflect.TypeOf(empty), "Home.Street")
	require.NoError(t, err)
	v, err := a.Get(reflect.ValueOf(empty))
	require.NoError(t, err)
	assert.False(t, v.IsValid())
}

func TestAccessor_SetWithoutCreate(t *testing.T) {
	p := &Person{}
	a, err := For(reflect.TypeOf(p), "Home.Street")
	require.NoError(t, err)
	err = a.Set(reflect.ValueOf(p), reflect.ValueOf("Main"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestAccessor_SetCreatingMissing(t *testing.T) {
	p := &Person{}
	set := func(path string, x any) {
		a, err := For(reflect.TypeOf(p), path)
		require.NoError(t, err)
		require.NoError(t, a.CreatingMissing().Set(reflect.ValueOf(p), reflect.ValueOf(x)))
	}
	set("Home.Street", "Main")
	set("Home.Lines[2]", "third")
	set("Tags.colour", "blue")
	set("Scores[1]", 9)
	set("Fixed[1]", 4)
	set("Extra.nested", "x")
	set("ByIndex[3]", "three")

	require.NotNil(t, p.Home)
	assert.Equal(t, "Main", p.Home.Street)
	assert.Equal(t, []string{"", "", "third"}, p.Home.Lines)
	assert.Equal(t, map[string]string{"colour": "blue"}, p.Tags)
	assert.Equal(t, []int{0, 9}, p.Scores)
	assert.Equal(t, [2]int{0, 4}, p.Fixed)
	assert.Equal(t, map[string]any{"nested": "x"}, p.Extra)
	assert.Equal(t, "three", p.ByIndex[3])
}

func TestAccessor_SetConvertsNamedTypes(t *testing.T) {
	type Level int
	type Holder struct{ L Level }
	h := &Holder{}
	a, err := For(reflect.TypeOf(h), "L")
	require.NoError(t, err)
	require.NoError(t, a.Set(reflect.ValueOf(h), reflect.ValueOf(3)))
	assert.Equal(t, Level(3), h.L)

	err = a.Set(reflect.ValueOf(h), reflect.ValueOf("3"))
	assert.Error(t, err)
}

func TestConvertible(t *testing.T) {
	assert.True(t, Convertible(reflect.TypeOf(1), reflect.TypeOf(int64(0))))
	assert.False(t, Convertible(reflect.TypeOf(65), reflect.TypeOf("")))
	assert.False(t, Convertible(reflect.TypeOf(""), reflect.TypeOf([]byte(nil))))
	assert.False(t, Convertible(reflect.TypeOf([]int{}), reflect.TypeOf([2]int{})))
}

func TestCaches_ConcurrentPopulation(t *testing.T) {
	t.Parallel()
	type Wide struct {
		A, B, C, D string
		N          *Address
	}
	var wg sync.WaitGroup
	results := make([]*Struct, 32)
	accessors := make([]*Accessor, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Of(reflect.TypeOf(Wide{}))
			a, err := For(reflect.TypeOf(Wide{}), "N.Street")
			if err == nil {
				accessors[i] = a
			}
		}(i)
	}
	wg.Wait()
	for i := range results {
		assert.Same(t, results[0], results[i])
		assert.Same(t, accessors[0], accessors[i])
	}
}

package common

import (
	"reflect"
	"testing"
	"time"

	"github.com/Station-Manager/mapper/converters"
	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToNullString(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantValid bool
		wantValue string
		wantErr   bool
	}{
		{name: "valid non-empty string", input: "England", wantValid: true, wantValue: "England"},
		{name: "empty string is null", input: ""},
		{name: "non-string input (int)", input: 123, wantErr: true},
		{name: "non-string input (nil)", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringToNullString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ns, ok := got.(null.String)
			require.True(t, ok)
			assert.Equal(t, tt.wantValid, ns.Valid)
			assert.Equal(t, tt.wantValue, ns.String)
		})
	}
}

func TestNullStringToString(t *testing.T) {
	got, err := NullStringToString(null.StringFrom("Wales"))
	require.NoError(t, err)
	assert.Equal(t, "Wales", got)

	got, err = NullStringToString(null.String{})
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = NullStringToString("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = NullStringToString(42)
	assert.Error(t, err)
}

func TestBoolConverters(t *testing.T) {
	got, err := BoolToNullBool(true)
	require.NoError(t, err)
	assert.Equal(t, null.BoolFrom(true), got)

	_, err = BoolToNullBool("true")
	assert.Error(t, err)

	b, err := NullBoolToBool(null.Bool{})
	require.NoError(t, err)
	assert.Equal(t, false, b)

	b, err = NullBoolToBool(null.BoolFrom(true))
	require.NoError(t, err)
	assert.Equal(t, true, b)

	_, err = NullBoolToBool(1)
	assert.Error(t, err)
}

func TestTimeConverters(t *testing.T) {
	now := time.Date(2025, 11, 8, 14, 30, 0, 0, time.UTC)
	got, err := TimeToNullTime(now)
	require.NoError(t, err)
	assert.Equal(t, null.TimeFrom(now), got)

	got, err = TimeToNullTime(time.Time{})
	require.NoError(t, err)
	assert.False(t, got.(null.Time).Valid)

	_, err = TimeToNullTime("2025-11-08")
	assert.Error(t, err)

	back, err := NullTimeToTime(null.TimeFrom(now))
	require.NoError(t, err)
	assert.Equal(t, now, back)

	back, err = NullTimeToTime(null.Time{})
	require.NoError(t, err)
	assert.True(t, back.(time.Time).IsZero())
}

func TestNumberConverters(t *testing.T) {
	n, err := Int64ToNullInt64(float64(14320000))
	require.NoError(t, err)
	assert.Equal(t, null.Int64From(14320000), n)

	_, err = Int64ToNullInt64(1.5)
	assert.Error(t, err)

	i, err := NullInt64ToInt64(null.Int64{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), i)

	ni, err := IntToNullInt(5)
	require.NoError(t, err)
	assert.Equal(t, null.IntFrom(5), ni)

	v, err := NullIntToInt(null.IntFrom(5))
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	f, err := Float64ToNullFloat64(14)
	require.NoError(t, err)
	assert.Equal(t, null.Float64From(14), f)

	ff, err := NullFloat64ToFloat64(null.Float64{})
	require.NoError(t, err)
	assert.Equal(t, float64(0), ff)
}

func TestJSONConverters(t *testing.T) {
	m := map[string]any{"rig": "IC-7300", "watts": float64(100)}

	nj, err := MapToNullJSON(m)
	require.NoError(t, err)
	require.True(t, nj.(null.JSON).Valid)

	back, err := NullJSONToMap(nj)
	require.NoError(t, err)
	assert.Equal(t, m, back)

	empty, err := MapToNullJSON(map[string]any{})
	require.NoError(t, err)
	assert.False(t, empty.(null.JSON).Valid)

	tj, err := MapToTypesJSON(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rig":"IC-7300","watts":100}`, string(tj.(types.JSON)))

	back, err = TypesJSONToMap(tj)
	require.NoError(t, err)
	assert.Equal(t, m, back)

	swapped, err := TypesJSONToNullJSON(tj)
	require.NoError(t, err)
	again, err := NullJSONToTypesJSON(swapped)
	require.NoError(t, err)
	assert.JSONEq(t, string(tj.(types.JSON)), string(again.(types.JSON)))

	_, err = NullJSONToMap(null.JSONFrom([]byte(`[1,2]`)))
	assert.Error(t, err)
}

func TestRegister_ChainsWithBuiltins(t *testing.T) {
	r := converters.Default().Child()
	Register(r)

	c, ok := r.Resolve(reflect.TypeFor[string](), reflect.TypeFor[null.Int64]())
	require.True(t, ok)
	assert.Equal(t, 2, c.Hops())
	out, err := c.Convert("10*60")
	require.NoError(t, err)
	assert.Equal(t, null.Int64From(600), out)

	c, ok = r.Get(reflect.TypeFor[null.String](), reflect.TypeFor[string]())
	require.True(t, ok)
	out, err = c.Convert(null.StringFrom("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

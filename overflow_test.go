package mapper

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test structs for AdditionalData handling
type contactIn struct {
	Name  string
	Phone string
	Email string
}

type contactRow struct {
	Name           string
	AdditionalData null.JSON
}

type contactBlob struct {
	Name           string
	AdditionalData types.JSON
}

type contactDoc struct {
	Name           string
	AdditionalData map[string]any
}

func TestOverflow_MarshalsUnmatchedFields(t *testing.T) {
	row := &contactRow{}
	_, err := Copy(contactIn{Name: "ann", Phone: "0113"}).To(row)
	require.NoError(t, err)
	assert.Equal(t, "ann", row.Name)
	require.True(t, row.AdditionalData.Valid)
	assert.JSONEq(t, `{"Phone":"0113"}`, string(row.AdditionalData.JSON))

	blob := &contactBlob{}
	_, err = Copy(contactIn{Name: "ann", Email: "a@b.c"}).To(blob)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Email":"a@b.c"}`, string(blob.AdditionalData))

	doc, err := MapTo[contactDoc](Copy(contactIn{Phone: "0113"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Phone": "0113"}, doc.AdditionalData)
}

func TestOverflow_SkipsFieldsReadBySpecialMappings(t *testing.T) {
	row, err := MapTo[contactRow](Copy(contactIn{Phone: "0113", Email: "a@b.c"}).MapField("Name", "Email"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", row.Name)
	assert.JSONEq(t, `{"Phone":"0113"}`, string(row.AdditionalData.JSON))
}

func TestOverflow_NothingLeftClearsTarget(t *testing.T) {
	row := &contactRow{AdditionalData: null.JSONFrom([]byte(`{"old":1}`))}
	_, err := Copy(contactIn{Name: "ann"}).To(row)
	require.NoError(t, err)
	assert.False(t, row.AdditionalData.Valid)
}

func TestOverflow_UnmarshalsIntoFields(t *testing.T) {
	row := contactRow{Name: "ann", AdditionalData: null.JSONFrom([]byte(`{"Phone":"0113","Email":"a@b.c","Name":"ignored","Age":3}`))}

	got, err := MapTo[contactIn](Copy(row))
	require.NoError(t, err)
	assert.Equal(t, contactIn{Name: "ann", Phone: "0113", Email: "a@b.c"}, got)

	m := NewWithOptions(WithOverwritePolicy(PreferAdditionalData))
	got, err = MapTo[contactIn](m.Copy(row))
	require.NoError(t, err)
	assert.Equal(t, "ignored", got.Name)

	m = NewWithOptions(WithDisableUnmarshalAdditionalData(true))
	got, err = MapTo[contactIn](m.Copy(row))
	require.NoError(t, err)
	assert.Equal(t, contactIn{Name: "ann"}, got)
}

func TestOverflow_KeywordKeysUnderMap(t *testing.T) {
	type profile struct {
		AdditionalData types.JSON
	}
	type view struct{ DisplayName string }
	got, err := MapTo[view](Map(profile{AdditionalData: types.JSON(`{"display_name":"Ann"}`)}))
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.DisplayName)
}

func TestOverflow_Options(t *testing.T) {
	m := NewWithOptions(WithIncludeZeroValues(true))
	row, err := MapTo[contactRow](m.Copy(contactIn{Name: "ann", Phone: "0113"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Phone":"0113","Email":""}`, string(row.AdditionalData.JSON))

	m = NewWithOptions(WithDisableMarshalAdditionalData(true))
	row, err = MapTo[contactRow](m.Copy(contactIn{Name: "ann", Phone: "0113"}))
	require.NoError(t, err)
	assert.False(t, row.AdditionalData.Valid)
}

func TestOverflow_FieldConverterAppliesToAdditionalData(t *testing.T) {
	row := contactRow{AdditionalData: null.JSONFrom([]byte(`{"Phone":" 0113 "}`))}
	got, err := MapTo[contactIn](Copy(row).WithFieldConverter("Phone", MapString(func(s string) string { return "+44" + s[1:5] })))
	require.NoError(t, err)
	assert.Equal(t, "+440113", got.Phone)
}

func TestOverflow_MergeKeepsExistingEntries(t *testing.T) {
	doc := &contactDoc{AdditionalData: map[string]any{"Email": "old@b.c"}}
	_, err := Merge(contactIn{Name: "ann", Phone: "0113"}).To(doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Email": "old@b.c", "Phone": "0113"}, doc.AdditionalData)
}

func TestOverflow_SameTypeCopiesDirectly(t *testing.T) {
	src := contactRow{Name: "ann", AdditionalData: null.JSONFrom([]byte(`{"x":1}`))}
	got, err := MapTo[contactRow](DeepCopy(src))
	require.NoError(t, err)
	assert.Equal(t, src.AdditionalData, got.AdditionalData)
}

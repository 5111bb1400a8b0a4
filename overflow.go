package mapper

import (
	"reflect"
	"sort"

	"github.com/Station-Manager/mapper/keyword"
	"github.com/Station-Manager/mapper/property"
	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

const additionalDataField = "AdditionalData"

var (
	nullJSONType  = reflect.TypeFor[null.JSON]()
	typesJSONType = reflect.TypeFor[types.JSON]()
	anyMapType    = reflect.TypeFor[map[string]any]()
)

func isOverflowField(f *property.Field) bool {
	if f == nil || f.Ignore || f.Name != additionalDataField {
		return false
	}
	return f.Type == nullJSONType || f.Type == typesJSONType || f.Type == anyMapType
}

// overflow tracks the AdditionalData handling of one bean to bean mapping: source
// fields without a counterpart are marshaled into the target's AdditionalData, and the
// source's AdditionalData is unmarshaled into target fields.
type overflow struct {
	d         *dataMapper
	src, dst  *property.Field
	processed map[string]bool // source field names consumed
	set       map[string]bool // target field names written
}

func (d *dataMapper) newOverflow(dstMeta, srcMeta *property.Struct) *overflow {
	sf, _ := srcMeta.Field(additionalDataField)
	df, _ := dstMeta.Field(additionalDataField)
	if !isOverflowField(sf) {
		sf = nil
	}
	if !isOverflowField(df) {
		df = nil
	}
	if sf == nil && df == nil {
		return nil
	}
	capHint := max(len(srcMeta.Fields), len(dstMeta.Fields))
	return &overflow{d: d, src: sf, dst: df, processed: d.m.getBoolMap(capHint), set: d.m.getBoolMap(capHint)}
}

func (o *overflow) isTarget(f *property.Field) bool { return o != nil && f == o.dst }
func (o *overflow) isSource(f *property.Field) bool { return o != nil && f == o.src }

func (o *overflow) markProcessed(f *property.Field) {
	if o != nil {
		o.processed[f.Name] = true
	}
}

// markSpecial records the source field at the head of the explicit mapping path sp.
func (o *overflow) markSpecial(sp string) {
	if o != nil {
		o.processed[splitFlatKey(sp)[0]] = true
	}
}

func (o *overflow) markSet(f *property.Field) {
	if o != nil {
		o.set[f.Name] = true
	}
}

func (o *overflow) release() {
	if o == nil {
		return
	}
	o.d.m.putBoolMap(o.processed)
	o.d.m.putBoolMap(o.set)
}

func (o *overflow) finish(dst, src reflect.Value, dstMeta, srcMeta *property.Struct, path []string) error {
	opts := o.d.m.options
	if o.src != nil && !opts.DisableUnmarshalAdditionalData {
		if ad, ok := property.Value(src, o.src); ok {
			if err := o.unmarshal(dst, dstMeta, ad, path); err != nil {
				return err
			}
		}
		o.processed[o.src.Name] = true
	}
	if o.dst != nil && !opts.DisableMarshalAdditionalData {
		p := appendPath(path, o.dst.Name)
		if o.d.filters.check(p, o.d.eq) == skip {
			return nil
		}
		fv, ok := property.Settable(dst, o.dst)
		if !ok {
			return nil
		}
		if err := o.marshal(fv, src, srcMeta, path); err != nil {
			return o.d.fail(p, err)
		}
	}
	return nil
}

func (o *overflow) lookup(dstMeta *property.Struct, key string) (*property.Field, bool) {
	if o.d.rule == KeywordMatching {
		return dstMeta.FieldByKeyword(keyword.Of(key))
	}
	if f, ok := dstMeta.Field(key); ok {
		return f, true
	}
	return dstMeta.FieldByJSONName(key)
}

// unmarshal writes the entries of the source AdditionalData ad into matching target
// fields. Under PreferFields, fields already written by the field pass are kept.
// Entries that do not decode into the field type are skipped.
func (o *overflow) unmarshal(dst reflect.Value, dstMeta *property.Struct, ad reflect.Value, path []string) error {
	fields, err := rawFields(ad)
	if err != nil {
		return o.d.fail(appendPath(path, o.src.Name), err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		df, ok := o.lookup(dstMeta, k)
		if !ok || df.Ignore || df == o.dst {
			continue
		}
		if o.d.m.options.OverwritePolicy == PreferFields && o.set[df.Name] {
			continue
		}
		p := appendPath(path, df.Name)
		if o.d.filters.check(p, o.d.eq) != whole {
			continue
		}
		fv, ok := property.Settable(dst, df)
		if !ok {
			continue
		}
		if fn := o.d.fieldConverters[df.Name]; fn != nil {
			var anyVal interface{}
			if err := json.Unmarshal(fields[k], &anyVal); err != nil {
				continue
			}
			converted, err := fn(anyVal)
			if err != nil || converted == nil {
				continue
			}
			cv := reflect.ValueOf(converted)
			if !cv.Type().AssignableTo(fv.Type()) {
				continue
			}
			fv.Set(cv)
		} else {
			ptr := reflect.New(fv.Type())
			if err := json.Unmarshal(fields[k], ptr.Interface()); err != nil {
				continue
			}
			fv.Set(ptr.Elem())
		}
		if err := o.d.validate(df.Name, fv); err != nil {
			if err := o.d.fail(p, err); err != nil {
				return err
			}
			continue
		}
		o.set[df.Name] = true
	}
	return nil
}

// marshal stores the unprocessed source fields in the target AdditionalData fv. Zero
// values are left out unless IncludeZeroValues is set. A merge keeps existing entries.
func (o *overflow) marshal(fv, src reflect.Value, srcMeta *property.Struct, path []string) error {
	remaining := make(map[string]interface{})
	if o.d.semantic.merge() {
		existing, err := decodeOverflow(fv)
		if err != nil {
			return err
		}
		for k, v := range existing {
			remaining[k] = v
		}
	}
	added := 0
	for _, sf := range srcMeta.Fields {
		if sf.Ignore || sf == o.src || o.processed[sf.Name] {
			continue
		}
		if o.d.filters.check(appendPath(path, sf.Name), o.d.eq) == skip {
			continue
		}
		v, ok := property.Value(src, sf)
		if !ok || !v.CanInterface() {
			continue
		}
		if !o.d.m.options.IncludeZeroValues && v.IsZero() {
			continue
		}
		remaining[sf.Name] = v.Interface()
		added++
	}
	if len(remaining) == 0 {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if added == 0 && o.d.semantic.merge() {
		return nil
	}
	if fv.Type() == anyMapType {
		fv.Set(reflect.ValueOf(remaining))
		return nil
	}
	bytes, err := json.Marshal(remaining)
	if err != nil {
		return err
	}
	switch fv.Type() {
	case nullJSONType:
		fv.Set(reflect.ValueOf(null.JSONFrom(bytes)))
	case typesJSONType:
		fv.Set(reflect.ValueOf(types.JSON(bytes)))
	}
	return nil
}

func overflowBytes(v reflect.Value) ([]byte, error) {
	switch x := v.Interface().(type) {
	case null.JSON:
		if !x.Valid {
			return nil, nil
		}
		return x.JSON, nil
	case types.JSON:
		return x, nil
	case map[string]any:
		if len(x) == 0 {
			return nil, nil
		}
		return json.Marshal(x)
	}
	return nil, nil
}

func rawFields(v reflect.Value) (map[string]json.RawMessage, error) {
	raw, err := overflowBytes(v)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeOverflow(v reflect.Value) (map[string]any, error) {
	if m, ok := v.Interface().(map[string]any); ok {
		return m, nil
	}
	raw, err := overflowBytes(v)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

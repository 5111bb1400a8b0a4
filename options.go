package mapper

import (
	"log/slog"

	"github.com/Station-Manager/mapper/converters"
)

// ConverterFunc converts a source field value to a destination field value.
// It is registered by field name on a mapping stage.
type ConverterFunc func(src interface{}) (interface{}, error)

// ValidatorFunc validates a field value after it has been assigned.
type ValidatorFunc func(value interface{}) error

// ComposeConverters chains multiple ConverterFunc instances left-to-right.
// If any converter returns an error it aborts.
// Nil output propagates immediately.
func ComposeConverters(fns ...ConverterFunc) ConverterFunc {
	return func(src interface{}) (interface{}, error) {
		cur := src
		for _, fn := range fns {
			out, err := fn(cur)
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			cur = out
		}
		return cur, nil
	}
}

// MapString returns a ConverterFunc applying f when src is a string; otherwise returns src unchanged.
func MapString(f func(string) string) ConverterFunc {
	return func(src interface{}) (interface{}, error) {
		if s, ok := src.(string); ok {
			return f(s), nil
		}
		return src, nil
	}
}

// OverwritePolicy controls how AdditionalData values interact with already-set fields
type OverwritePolicy int

const (
	PreferFields         OverwritePolicy = iota // default: do not overwrite fields set from direct mapping
	PreferAdditionalData                        // overwrite fields with values from AdditionalData if present
)

type Options struct {
	Registry                       *converters.Registry // converters consulted by every stage; defaults to the built-ins plus converters/common
	Logger                         *slog.Logger         // defaults to slog.Default() at the time of use
	GlobalFilter                   string               // filter spec applied to every mapping unless the stage ignores it
	IgnoreErrors                   bool                 // when true, stages skip failing fields instead of returning an error
	MappingRule                    MappingRule          // overrides the default rule of every semantic
	IncludeZeroValues              bool                 // when true, include zero-valued fields in marshaled AdditionalData
	OverwritePolicy                OverwritePolicy      // controls if AdditionalData overwrites direct fields
	DisableMarshalAdditionalData   bool                 // when true, do not marshal remaining fields into destination AdditionalData
	DisableUnmarshalAdditionalData bool                 // when true, ignore source AdditionalData
}

type Option func(*Options)

func WithRegistry(r *converters.Registry) Option { return func(o *Options) { o.Registry = r } }
func WithLogger(l *slog.Logger) Option           { return func(o *Options) { o.Logger = l } }
func WithGlobalFilter(spec string) Option        { return func(o *Options) { o.GlobalFilter = spec } }
func WithIgnoreErrors(v bool) Option             { return func(o *Options) { o.IgnoreErrors = v } }
func WithMappingRule(r MappingRule) Option       { return func(o *Options) { o.MappingRule = r } }
func WithIncludeZeroValues(v bool) Option        { return func(o *Options) { o.IncludeZeroValues = v } }
func WithOverwritePolicy(p OverwritePolicy) Option {
	return func(o *Options) { o.OverwritePolicy = p }
}
func WithDisableMarshalAdditionalData(v bool) Option {
	return func(o *Options) { o.DisableMarshalAdditionalData = v }
}
func WithDisableUnmarshalAdditionalData(v bool) Option {
	return func(o *Options) { o.DisableUnmarshalAdditionalData = v }
}

package converters

import (
	"math"
	"testing"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckString(t *testing.T) {
	op := errors.Op("test.CheckString")

	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{name: "valid string", input: "test string", want: "test string"},
		{name: "empty string", input: "", wantErr: true},
		{name: "int", input: 123, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "bool", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckString(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckFloat64(t *testing.T) {
	op := errors.Op("test.CheckFloat64")

	tests := []struct {
		name    string
		input   interface{}
		want    float64
		wantErr bool
	}{
		{name: "float64", input: 123.45, want: 123.45},
		{name: "zero", input: 0.0, want: 0},
		{name: "float32", input: float32(1.5), want: 1.5},
		{name: "int", input: 123, want: 123},
		{name: "uint8", input: uint8(7), want: 7},
		{name: "string", input: "123.45", wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckFloat64(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckInt64(t *testing.T) {
	op := errors.Op("test.CheckInt64")

	tests := []struct {
		name    string
		input   interface{}
		want    int64
		wantErr bool
	}{
		{name: "int64", input: int64(123), want: 123},
		{name: "int", input: 123, want: 123},
		{name: "int32", input: int32(123), want: 123},
		{name: "int16", input: int16(123), want: 123},
		{name: "int8", input: int8(123), want: 123},
		{name: "uint", input: uint(123), want: 123},
		{name: "uint64", input: uint64(123), want: 123},
		{name: "uint64 beyond int64", input: uint64(math.MaxUint64), want: -1, wantErr: true},
		{name: "uint32", input: uint32(123), want: 123},
		{name: "uint16", input: uint16(123), want: 123},
		{name: "uint8", input: uint8(123), want: 123},
		{name: "whole float64 from JSON", input: float64(14320000), want: 14320000},
		{name: "fractional float64", input: 123.45, want: -1, wantErr: true},
		{name: "string", input: "123", want: -1, wantErr: true},
		{name: "nil", input: nil, want: -1, wantErr: true},
		{name: "bool", input: true, want: -1, wantErr: true},
		{name: "negative", input: int64(-123), want: -123},
		{name: "max int64", input: int64(math.MaxInt64), want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckInt64(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTime(t *testing.T) {
	op := errors.Op("test.CheckTime")
	now := time.Now()

	got, err := CheckTime(op, now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = CheckTime(op, time.Time{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	for _, bad := range []interface{}{"2025-11-08", 123, nil} {
		_, err := CheckTime(op, bad)
		assert.Error(t, err)
	}
}

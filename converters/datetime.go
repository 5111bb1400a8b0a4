package converters

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/spf13/cast"
)

// ParseTime converts a string to a time.Time. A string hint is used as the layout.
// Without a hint the compact forms YYYYMMDD, HHMM and HH:MM are tried first, followed
// by the layouts understood by spf13/cast (RFC 3339, YYYY-MM-DD, RFC 1123 and others).
func ParseTime(src string, hint any) (time.Time, error) {
	const op errors.Op = "converters.ParseTime"
	if layout, ok := hint.(string); ok && layout != "" {
		t, err := time.Parse(layout, src)
		if err != nil {
			return time.Time{}, Wrap(op, ErrMsgBadLayout, err)
		}
		return t, nil
	}
	var (
		t   time.Time
		err error
	)
	switch {
	case len(src) == 8 && allDigits(src):
		if t, err = time.Parse("20060102", src); err != nil {
			return time.Time{}, errors.New(op).Err(err).Msg(ErrMsgBadDateFormat)
		}
	case len(src) == 4 && allDigits(src):
		if t, err = time.Parse("1504", src); err != nil {
			return time.Time{}, errors.New(op).Err(err).Msg(ErrMsgBadTimeFormat)
		}
	case len(src) == 5 && src[2] == ':':
		if t, err = time.Parse("15:04", src); err != nil {
			return time.Time{}, errors.New(op).Err(err).Msg(ErrMsgBadTimeFormat)
		}
	default:
		if t, err = cast.ToTimeE(src); err != nil {
			return time.Time{}, errors.New(op).Err(err).Msg(ErrMsgBadDateFormat)
		}
	}
	return t, nil
}

// FormatTime formats t as RFC 3339, or with the layout given as a string hint.
func FormatTime(t time.Time, hint any) (string, error) {
	if layout, ok := hint.(string); ok && layout != "" {
		return t.Format(layout), nil
	}
	return t.Format(time.RFC3339), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func registerDateTime(r *Registry) {
	r.Register(
		NewWithHint(ParseTime),
		NewWithHint(FormatTime),
		New(func(ms int64) (time.Time, error) { return time.UnixMilli(ms).UTC(), nil }),
		New(func(t time.Time) (int64, error) { return t.UnixMilli(), nil }),
		New(func(s string) (time.Duration, error) { return cast.ToDurationE(s) }),
		New(func(d time.Duration) (string, error) { return d.String(), nil }),
		New(func(n int64) (time.Duration, error) { return cast.ToDurationE(n) }),
		New(func(d time.Duration) (int64, error) { return int64(d), nil }),
	)
}

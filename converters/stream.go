package converters

import (
	"bytes"
	"io"
	"strings"

	"github.com/Station-Manager/errors"
)

// ReadAll drains r.
func ReadAll(r io.Reader) ([]byte, error) {
	const op errors.Op = "converters.ReadAll"
	if r == nil {
		return nil, errors.New(op).Msg("nil reader")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, Wrap(op, ErrMsgReadFailed, err)
	}
	return b, nil
}

func registerStreams(r *Registry) {
	r.Register(
		New(ReadAll),
		New(func(rd io.Reader) (string, error) {
			b, err := ReadAll(rd)
			return string(b), err
		}),
		New(func(b []byte) (io.Reader, error) { return bytes.NewReader(b), nil }),
		New(func(s string) (io.Reader, error) { return strings.NewReader(s), nil }),
	)
}

package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "camel case", input: "fooBar", want: "foo_bar"},
		{name: "snake case", input: "foo_bar", want: "foo_bar"},
		{name: "pascal case", input: "FooBar", want: "foo_bar"},
		{name: "screaming snake", input: "RED_COLOR", want: "red_color"},
		{name: "kebab case", input: "red-color", want: "red_color"},
		{name: "acronym prefix", input: "HTTPServer", want: "http_server"},
		{name: "acronym suffix", input: "userID", want: "user_id"},
		{name: "digits", input: "address2Line", want: "address2_line"},
		{name: "repeated separators", input: "foo__bar--baz", want: "foo_bar_baz"},
		{name: "words without vowels", input: "txPwr", want: "tx_pwr"},
		{name: "spaces", input: "first name", want: "first_name"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("fooBar", "foo_bar"))
	assert.True(t, Equal("FooBar", "FOO_BAR"))
	assert.True(t, Equal("redColor", "RED_COLOR"))
	assert.True(t, Equal("TX_PWR", "txPwr"))
	assert.False(t, Equal("fooBar", "foobar2"))
	assert.False(t, Equal("foo", "bar"))
}

package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LamaAni/yapenv/internal/format"
)

func TestParse(t *testing.T) {
	for _, name := range []string{"yaml", "json", "list", "cli"} {
		f, err := format.Parse(name)
		require.NoError(t, err)
		assert.Equal(t, format.PrintFormat(name), f)
	}

	_, err := format.Parse("xml")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name   string
		format format.PrintFormat
		value  any
		quote  bool
		want   string
	}{
		{
			name:   "yaml mapping",
			format: format.YAML,
			value:  map[string]any{"python_version": "3.10"},
			want:   `python_version: "3.10"`,
		},
		{
			name:   "json sequence",
			format: format.JSON,
			value:  []any{"black", "flake8"},
			want:   `["black","flake8"]`,
		},
		{
			name:   "list one item per line",
			format: format.List,
			value:  []any{"black", "flake8"},
			want:   "black\nflake8",
		},
		{
			name:   "list renders nested values as json",
			format: format.List,
			value:  []any{"black", map[string]any{"import": "requirements.txt"}},
			want:   "black\n{\"import\":\"requirements.txt\"}",
		},
		{
			name:   "cli joins with spaces",
			format: format.CLI,
			value:  []string{"install", "--no-cache-dir", "celery==5.2.6"},
			want:   "install --no-cache-dir celery==5.2.6",
		},
		{
			name:   "cli quotes arguments with spaces",
			format: format.CLI,
			value:  []string{"--find-links", "/some dir/wheels"},
			quote:  true,
			want:   "--find-links '/some dir/wheels'",
		},
		{
			name:   "scalar renders as its token",
			format: format.List,
			value:  "v",
			want:   "v",
		},
		{
			name:   "null scalar",
			format: format.List,
			value:  nil,
			want:   "null",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := format.Render(tc.format, tc.value, tc.quote)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestShellQuote(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "celery==5.2.6", want: "celery==5.2.6"},
		{in: "", want: "''"},
		{in: "has space", want: "'has space'"},
		{in: "it's", want: `'it'\''s'`},
		{in: "$HOME", want: "'$HOME'"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, format.ShellQuote(tc.in))
		})
	}
}

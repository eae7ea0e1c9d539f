package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LamaAni/yapenv/internal/config"
)

func queryDoc(t *testing.T) config.Value {
	t.Helper()
	v, err := config.FromAny(map[string]any{
		"my_custom_config": map[string]any{
			"a_list": []any{
				map[string]any{"a_key": "v"},
				"second",
			},
			"nested": map[string]any{"deep": true},
		},
		"a_list": []any{"x", "y"},
		"scalar": 42,
	})
	require.NoError(t, err)
	return v
}

func TestQuery(t *testing.T) {
	testCases := []struct {
		name  string
		path  string
		check func(t *testing.T, v config.Value)
	}{
		{
			name: "nested scalar through list index",
			path: "my_custom_config.a_list[0].a_key",
			check: func(t *testing.T, v config.Value) {
				assert.Equal(t, "v", v.Str())
			},
		},
		{
			name: "top level scalar",
			path: "scalar",
			check: func(t *testing.T, v config.Value) {
				assert.Equal(t, int64(42), v.Int())
			},
		},
		{
			name: "structured result",
			path: "my_custom_config.nested",
			check: func(t *testing.T, v config.Value) {
				assert.Equal(t, config.KindMapping, v.Kind())
				assert.False(t, v.IsScalar())
			},
		},
		{
			name: "list element",
			path: "a_list[1]",
			check: func(t *testing.T, v config.Value) {
				assert.Equal(t, "y", v.Str())
			},
		},
	}

	doc := queryDoc(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := config.Query(doc, tc.path)
			require.NoError(t, err)
			tc.check(t, v)
		})
	}
}

func TestQueryErrors(t *testing.T) {
	testCases := []struct {
		name        string
		path        string
		wantSegment string
	}{
		{name: "missing key", path: "my_custom_config.missing", wantSegment: "missing"},
		{name: "index out of range", path: "a_list[5]", wantSegment: "a_list[5]"},
		{name: "index into mapping", path: "my_custom_config[0]", wantSegment: "my_custom_config[0]"},
		{name: "key into scalar", path: "scalar.anything", wantSegment: "anything"},
		{name: "key into sequence", path: "a_list.name", wantSegment: "name"},
		{name: "malformed segment", path: "a_list[x]", wantSegment: "a_list[x]"},
		{name: "empty expression", path: "", wantSegment: ""},
	}

	doc := queryDoc(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Query(doc, tc.path)
			require.Error(t, err)

			var pathErr *config.PathError
			require.True(t, errors.As(err, &pathErr))
			assert.Equal(t, tc.wantSegment, pathErr.Segment)
		})
	}
}

func TestQueryErrorReportsConsumedPrefix(t *testing.T) {
	_, err := config.Query(queryDoc(t), "my_custom_config.a_list[5]")
	require.Error(t, err)

	var pathErr *config.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "a_list[5]", pathErr.Segment)
	assert.Equal(t, "my_custom_config", pathErr.Prefix)
}

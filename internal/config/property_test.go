package config_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/mocks"
)

// Property-based checks over the merge and flattening invariants.

var specifierGen = rapid.Custom(func(t *rapid.T) string {
	name := rapid.SampledFrom([]string{
		"black", "flake8", "celery", "Flask", "pyyaml", "requests", "click",
	}).Draw(t, "name")
	if rapid.Bool().Draw(t, "pinned") {
		op := rapid.SampledFrom([]string{"==", ">=", "<=", "~="}).Draw(t, "op")
		major := rapid.IntRange(0, 9).Draw(t, "major")
		minor := rapid.IntRange(0, 20).Draw(t, "minor")
		return fmt.Sprintf("%s%s%d.%d", name, op, major, minor)
	}
	return name
})

func flattenSpecs(t require.TestingT, specs []string) []string {
	items := make([]any, len(specs))
	for i, s := range specs {
		items[i] = s
	}
	v, err := config.FromAny(map[string]any{"requirements": items})
	require.NoError(t, err)
	out, err := config.NewConfig(v, "/project").FlattenRequirements(mocks.NewMemFS())
	require.NoError(t, err)
	return out
}

// Flattening an already-flattened list changes nothing.
func TestFlattenIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		specs := rapid.SliceOfN(specifierGen, 0, 20).Draw(t, "specs")

		once := flattenSpecs(t, specs)
		twice := flattenSpecs(t, once)
		require.Equal(t, once, twice)
	})
}

// No package name survives twice, and every surviving specifier was
// the last one declared for its name.
func TestFlattenDeduplicatesByNameProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		specs := rapid.SliceOfN(specifierGen, 0, 20).Draw(t, "specs")

		out := flattenSpecs(t, specs)
		seen := map[string]string{}
		for _, spec := range out {
			name := config.Requirement{Package: spec}.PackageName()
			require.NotContains(t, seen, name)
			seen[name] = spec
		}
		// Last declaration per name is the one that survives.
		last := map[string]string{}
		for _, spec := range specs {
			last[config.Requirement{Package: spec}.PackageName()] = spec
		}
		for name, spec := range seen {
			require.Equal(t, last[name], spec)
		}
	})
}

// Merging never loses keys: every key of either side is present in the
// result, and scalars from the overlay win.
func TestMergeKeyPreservationProperty(t *testing.T) {
	keyGen := rapid.SampledFrom([]string{"a", "b", "c", "d", "python_version"})
	docGen := rapid.Custom(func(t *rapid.T) map[string]any {
		doc := map[string]any{}
		for _, k := range rapid.SliceOfNDistinct(keyGen, 0, 5, rapid.ID[string]).Draw(t, "keys") {
			doc[k] = rapid.SampledFrom([]string{"x", "y", "z"}).Draw(t, "val-"+k)
		}
		return doc
	})

	rapid.Check(t, func(t *rapid.T) {
		baseDoc := docGen.Draw(t, "base")
		overlayDoc := docGen.Draw(t, "overlay")

		base, err := config.FromAny(baseDoc)
		require.NoError(t, err)
		overlay, err := config.FromAny(overlayDoc)
		require.NoError(t, err)

		merged := config.Merge(base, overlay)
		for k, v := range baseDoc {
			got, ok := merged.Get(k)
			require.True(t, ok)
			if _, overridden := overlayDoc[k]; !overridden {
				require.Equal(t, v, got.Str())
			}
		}
		for k, v := range overlayDoc {
			got, ok := merged.Get(k)
			require.True(t, ok)
			require.Equal(t, v, got.Str())
		}
	})
}

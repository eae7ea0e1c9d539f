package envfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LamaAni/yapenv/internal/envfile"
)

func TestResolvePrecedence(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("YAPENV_ENV_FILE", "from-env.env")
		assert.Equal(t, filepath.Join("/dir", "flag.env"), envfile.Resolve("flag.env", "/dir"))
	})

	t.Run("env var when no flag", func(t *testing.T) {
		t.Setenv("YAPENV_ENV_FILE", "from-env.env")
		assert.Equal(t, filepath.Join("/dir", "from-env.env"), envfile.Resolve("", "/dir"))
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("YAPENV_ENV_FILE", "")
		assert.Equal(t, filepath.Join("/dir", ".env"), envfile.Resolve("", "/dir"))
	})

	t.Run("absolute path untouched", func(t *testing.T) {
		assert.Equal(t, "/abs/.env", envfile.Resolve("/abs/.env", "/dir"))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("YAPENV_TEST_VALUE=hello\n"), 0o644))

	t.Setenv("YAPENV_TEST_VALUE", "")
	os.Unsetenv("YAPENV_TEST_VALUE")

	require.NoError(t, envfile.Load(path))
	assert.Equal(t, "hello", os.Getenv("YAPENV_TEST_VALUE"))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	require.NoError(t, envfile.Load(filepath.Join(t.TempDir(), "nope.env")))
}

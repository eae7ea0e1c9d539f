// Package envfile loads dotenv files into the process environment
// before configuration resolution, mirroring the original yapenv
// behavior of sourcing an env_file ahead of every command.
package envfile

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/LamaAni/yapenv/internal/log"
)

// Resolve picks the dotenv path for a command: the explicit flag value,
// then YAPENV_ENV_FILE, then ".env". Relative paths resolve against dir.
func Resolve(flagValue, dir string) string {
	path := flagValue
	if path == "" {
		path = os.Getenv("YAPENV_ENV_FILE")
	}
	if path == "" {
		path = ".env"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return path
}

// Load sources the dotenv file at path into the process environment.
// A missing file is not an error; existing variables are not overridden.
func Load(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	log.Debugf("envfile: loading %s", path)
	return godotenv.Load(path)
}

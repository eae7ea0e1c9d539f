package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultVenvDirectory is used when venv_directory is unset.
	DefaultVenvDirectory = ".venv"
	// DefaultEnvFile is used when env_file is unset in both the
	// document and the YAPENV_ENV_FILE environment variable.
	DefaultEnvFile = ".env"
	// DefaultPythonVersion is used when neither python_version nor
	// python_executable is set.
	DefaultPythonVersion = "3.10"

	requirementsKey = "requirements"
)

// Config is the effective configuration for a (directory, environment)
// pair: the fully merged document plus the directory it was resolved
// from. The underlying document is immutable; typed accessors apply
// defaults without writing them back.
type Config struct {
	root         Value
	dir          string
	environments Value
}

// NewConfig wraps an already-merged document. Tests and the init
// command use it to build configurations without touching the disk.
func NewConfig(root Value, dir string) *Config {
	return &Config{root: root.Without("environments"), dir: dir, environments: environmentsOf(root)}
}

// Root returns the merged document, with the environments section
// removed. Extra keys not in the known schema remain reachable here
// and through Find.
func (c *Config) Root() Value { return c.root }

// SourceDirectory is the directory the configuration was resolved from.
func (c *Config) SourceDirectory() string { return c.dir }

func (c *Config) str(key, fallback string) string {
	if v, ok := c.root.Get(key); ok && v.Kind() == KindString && v.Str() != "" {
		return v.Str()
	}
	return fallback
}

// PythonVersion returns the configured python version, defaulted.
// PythonExecutable takes precedence over it when set.
func (c *Config) PythonVersion() string {
	return c.str("python_version", DefaultPythonVersion)
}

// PythonExecutable returns the explicit python executable path, or "".
func (c *Config) PythonExecutable() string {
	return c.str("python_executable", "")
}

// PythonSelector returns the value handed to the virtual-environment
// tool's --python flag: the executable when set, the version otherwise.
func (c *Config) PythonSelector() string {
	if exe := c.PythonExecutable(); exe != "" {
		return exe
	}
	return c.PythonVersion()
}

// VenvDirectory returns the virtual environment directory, defaulted.
func (c *Config) VenvDirectory() string {
	return c.str("venv_directory", DefaultVenvDirectory)
}

// VenvPath returns the absolute virtual environment path, resolved
// against the source directory when venv_directory is relative.
func (c *Config) VenvPath() string {
	dir := c.VenvDirectory()
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.dir, dir)
}

// PipConfigPath returns the configured pip config file path, or "".
func (c *Config) PipConfigPath() string {
	return c.str("pip_config_path", "")
}

// EnvFile returns the dotenv file path for this configuration:
// env_file from the document, then YAPENV_ENV_FILE, then ".env".
func (c *Config) EnvFile() string {
	if v, ok := c.root.Get("env_file"); ok && v.Kind() == KindString && v.Str() != "" {
		return v.Str()
	}
	if fromEnv := os.Getenv("YAPENV_ENV_FILE"); fromEnv != "" {
		return fromEnv
	}
	return DefaultEnvFile
}

// Inherit reports whether this document inherits from ancestors.
// A fully merged configuration keeps the most local layer's flag.
func (c *Config) Inherit() bool {
	return inheritOf(c.root)
}

// PipInstallArgs returns the extra installer arguments, in order.
func (c *Config) PipInstallArgs() []string {
	v, _ := c.root.Get("pip_install_args")
	return v.StringSlice()
}

// VirtualenvArgs returns the extra virtual-environment tool arguments.
func (c *Config) VirtualenvArgs() []string {
	v, _ := c.root.Get("virtualenv_args")
	return v.StringSlice()
}

// EnvironmentNames returns the declared environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	return c.environments.Keys()
}

// Environment returns the raw overlay document for a declared
// environment name.
func (c *Config) Environment(name string) (Value, bool) {
	return c.environments.Get(name)
}

// HasVirtualEnvironment reports whether the venv directory exists.
func (c *Config) HasVirtualEnvironment() bool {
	info, err := os.Stat(c.VenvPath())
	return err == nil && info.IsDir()
}

// ResolveFromSource joins path parts onto the source directory,
// leaving absolute paths untouched.
func (c *Config) ResolveFromSource(parts ...string) string {
	if len(parts) > 0 && filepath.IsAbs(parts[0]) {
		return filepath.Join(parts...)
	}
	return filepath.Join(append([]string{c.dir}, parts...)...)
}

// ResolveFromVenv joins path parts onto the virtual environment path.
func (c *Config) ResolveFromVenv(parts ...string) string {
	return filepath.Join(append([]string{c.VenvPath()}, parts...)...)
}

// Find navigates the merged document with a path expression such as
// "my_custom_config.a_list[0].a_key". See Query for the grammar.
func (c *Config) Find(path string) (Value, error) {
	return Query(c.root, path)
}

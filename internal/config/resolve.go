package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/LamaAni/yapenv/internal/filesys"
	"github.com/LamaAni/yapenv/internal/log"
)

// Options controls a single configuration resolution.
type Options struct {
	// Environment selects an overlay from the environments mapping.
	// Empty means no overlay.
	Environment string
	// InheritDepth caps how many ancestor layers are collected.
	// Negative means unlimited, zero disables inheritance entirely.
	InheritDepth int
	// Candidates overrides the configuration file names to search for.
	Candidates []string
	// FS is the filesystem used for all reads. Nil means the OS filesystem.
	FS filesys.ReadFS
}

// DefaultOptions returns Options with unlimited inheritance depth.
func DefaultOptions() Options {
	return Options{InheritDepth: -1}
}

// Load resolves the effective configuration for a directory: it loads
// the local document, collects ancestor layers while inherit is true,
// merges them ancestor-first, applies the requested environment
// overlay and validates the result. The starting directory must hold a
// configuration file; the error matches ErrNotFound when it does not.
func Load(dir string, opts Options) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesys.OS()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	loader := NewLoader(fsys, opts.Candidates)
	local, path, err := loader.LoadDir(abs)
	if err != nil {
		return nil, err
	}
	log.Debugf("config: loaded %s", path)

	layers, err := collectAncestors(loader, abs, local, opts.InheritDepth)
	if err != nil {
		return nil, err
	}

	// Ancestors establish the base; each closer layer merges on top so
	// its scalars win and its list entries land after the ancestor's.
	merged := Mapping(nil)
	for i := len(layers) - 1; i >= 0; i-- {
		merged = Merge(merged, layers[i])
	}

	if opts.Environment != "" {
		merged, err = applyOverlay(merged, opts.Environment)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{root: merged.Without("environments"), dir: abs, environments: environmentsOf(merged)}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// collectAncestors walks parent directories while the most recently
// loaded layer declares inherit: true. The returned slice is ordered
// local-first. Visited directories are tracked by canonical path so a
// symlink loop fails with CycleError instead of walking forever.
func collectAncestors(loader *Loader, start string, local Value, maxDepth int) ([]Value, error) {
	layers := []Value{local}
	visited := map[string]bool{filesys.Canonical(start): true}

	dir := start
	for inheritOf(layers[len(layers)-1]) {
		if maxDepth >= 0 && len(layers) > maxDepth {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // filesystem root
		}
		canonical := filesys.Canonical(parent)
		if visited[canonical] {
			return nil, &CycleError{Dir: parent}
		}
		visited[canonical] = true

		doc, path, err := loader.LoadDir(parent)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		log.Debugf("config: inherited %s", path)
		layers = append(layers, doc)
		dir = parent
	}
	return layers, nil
}

func inheritOf(doc Value) bool {
	v, ok := doc.Get("inherit")
	return ok && v.Bool()
}

// applyOverlay merges environments[name] over the base document.
// List fields concatenate base-then-overlay; scalars are overridden.
func applyOverlay(base Value, name string) (Value, error) {
	envs, _ := base.Get("environments")
	overlay, ok := envs.Get(name)
	if !ok {
		return Value{}, &UnknownEnvironmentError{Name: name, Known: envs.Keys()}
	}
	if overlay.Kind() != KindMapping {
		return Value{}, &UnknownEnvironmentError{Name: name, Known: envs.Keys()}
	}
	// The overlay never carries its own environments section into the
	// merge; it is an environment, not a container of them.
	return Merge(base, overlay.Without("environments")), nil
}

func environmentsOf(merged Value) Value {
	envs, ok := merged.Get("environments")
	if !ok {
		return Mapping(nil)
	}
	return envs
}

// Validate checks the shape of the merged document: list-valued fields
// must be sequences, requirements entries must be parseable, and the
// environments section must map names to mappings. All problems are
// reported together.
func (c *Config) Validate() error {
	var err error

	for _, field := range []string{"pip_install_args", "virtualenv_args"} {
		if v, ok := c.root.Get(field); ok && v.Kind() != KindSequence {
			err = multierr.Append(err, fmt.Errorf("%s must be a sequence, got %s", field, v.Kind()))
		}
	}
	if v, ok := c.root.Get(requirementsKey); ok {
		if v.Kind() != KindSequence {
			err = multierr.Append(err, fmt.Errorf("%s must be a sequence, got %s", requirementsKey, v.Kind()))
		} else {
			for i, item := range v.Sequence() {
				if _, perr := parseRequirement(item); perr != nil {
					err = multierr.Append(err, fmt.Errorf("%s[%d]: %w", requirementsKey, i, perr))
				}
			}
		}
	}
	if c.environments.Kind() != KindMapping && !c.environments.IsNull() {
		err = multierr.Append(err, fmt.Errorf("environments must be a mapping, got %s", c.environments.Kind()))
	} else {
		for _, name := range c.environments.Keys() {
			entry, _ := c.environments.Get(name)
			if entry.Kind() != KindMapping {
				err = multierr.Append(err, fmt.Errorf("environments.%s must be a mapping, got %s", name, entry.Kind()))
			}
		}
	}
	return err
}

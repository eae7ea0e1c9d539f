package config

import (
	"errors"
	"regexp"
	"strings"

	"github.com/LamaAni/yapenv/internal/filesys"
)

// Requirement is one entry of the requirements list: either a pip-style
// specifier (Package) or a reference to a requirements file whose lines
// are spliced in during flattening (Import). Exactly one field is set.
type Requirement struct {
	Package string
	Import  string
}

// packageNameRe captures the package name portion of a specifier: the
// leading run before any version or comparator operator.
var packageNameRe = regexp.MustCompile(`^[\w._-]+`)

// PackageName returns the bare package name of a specifier, used as the
// deduplication key ("Flask>=2.1.2" -> "Flask"). Import entries key on
// their path so duplicate imports also collapse.
func (r Requirement) PackageName() string {
	if r.Import != "" {
		return "import: " + r.Import
	}
	if name := packageNameRe.FindString(strings.TrimSpace(r.Package)); name != "" {
		return name
	}
	return r.Package
}

// parseRequirement interprets one node of the requirements sequence:
// a literal specifier string, {package: "name"} or {import: "path"}.
// The original yapenv accepted import_path as an alias for import.
func parseRequirement(v Value) (Requirement, error) {
	switch v.Kind() {
	case KindString:
		spec := strings.TrimSpace(v.Str())
		if spec == "" {
			return Requirement{}, errors.New("empty requirement specifier")
		}
		return Requirement{Package: spec}, nil
	case KindMapping:
		for _, key := range []string{"import", "import_path"} {
			if item, ok := v.Get(key); ok {
				if item.Kind() != KindString || item.Str() == "" {
					return Requirement{}, errors.New("import must be a non-empty string")
				}
				return Requirement{Import: item.Str()}, nil
			}
		}
		if item, ok := v.Get("package"); ok {
			if item.Kind() != KindString || strings.TrimSpace(item.Str()) == "" {
				return Requirement{}, errors.New("package must be a non-empty string")
			}
			return Requirement{Package: strings.TrimSpace(item.Str())}, nil
		}
		return Requirement{}, errors.New("requirement mapping needs a package or import key")
	default:
		return Requirement{}, errors.New("requirement must be a string or a mapping, got " + v.Kind().String())
	}
}

// Requirements returns the declared requirements in order. Entries that
// fail to parse are skipped; Load has already rejected them through
// Validate, so this only matters for hand-built documents.
func (c *Config) Requirements() []Requirement {
	v, ok := c.root.Get(requirementsKey)
	if !ok || v.Kind() != KindSequence {
		return nil
	}
	reqs := make([]Requirement, 0, v.Len())
	for _, item := range v.Sequence() {
		req, err := parseRequirement(item)
		if err != nil {
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// FlattenRequirements expands the requirements list into installer-ready
// specifier strings: import entries are replaced in place by the lines
// of the referenced file (comments and blanks dropped), then duplicates
// are removed by package name. A missing or unreadable import file
// fails with ImportError.
func (c *Config) FlattenRequirements(fsys filesys.ReadFS) ([]string, error) {
	if fsys == nil {
		fsys = filesys.OS()
	}
	var specs []string
	for _, req := range c.Requirements() {
		if req.Import == "" {
			specs = append(specs, req.Package)
			continue
		}
		path := c.ResolveFromSource(req.Import)
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, &ImportError{Path: path, Err: err}
		}
		specs = append(specs, parseRequirementsFile(string(data))...)
	}
	return dedupeSpecifiers(specs), nil
}

// parseRequirementsFile splits a requirements file into specifier
// lines. Comments ("#" to end of line) and blank lines are dropped; the
// syntax is otherwise treated as opaque.
func parseRequirementsFile(raw string) []string {
	var specs []string
	for _, line := range strings.Split(raw, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		specs = append(specs, line)
	}
	return specs
}

// dedupeSpecifiers removes duplicate package names, keeping the LAST
// occurrence. The merge order places more specific layers later in the
// list, so their pins displace what ancestors declared while the
// surviving entry keeps the later position. The scan runs right to
// left and the kept entries are reversed back into order.
func dedupeSpecifiers(specs []string) []string {
	seen := make(map[string]bool, len(specs))
	kept := make([]string, 0, len(specs))
	for i := len(specs) - 1; i >= 0; i-- {
		name := Requirement{Package: specs[i]}.PackageName()
		if seen[name] {
			continue
		}
		seen[name] = true
		kept = append(kept, specs[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/LamaAni/yapenv/internal/filesys"
)

// DefaultCandidates is the ordered list of configuration file names
// tried in a directory. Earlier names win.
var DefaultCandidates = []string{".yapenv.yaml", ".yapenv.yml", ".yapenv", ".yapenv.json"}

var candidateSplit = regexp.MustCompile(`[\s,]+`)

// CandidateNames returns the configuration file names to search for,
// honoring the YAPENV_CONFIG_FILES override (a space- or comma-
// separated list).
func CandidateNames() []string {
	raw := strings.TrimSpace(os.Getenv("YAPENV_CONFIG_FILES"))
	if raw == "" {
		return DefaultCandidates
	}
	var names []string
	for _, name := range candidateSplit.Split(raw, -1) {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return DefaultCandidates
	}
	return names
}

// Loader finds and parses a single configuration document in a directory.
type Loader struct {
	fs         filesys.ReadFS
	candidates []string
}

// NewLoader creates a loader over the given filesystem. A nil or empty
// candidates list falls back to CandidateNames().
func NewLoader(fs filesys.ReadFS, candidates []string) *Loader {
	if len(candidates) == 0 {
		candidates = CandidateNames()
	}
	return &Loader{fs: fs, candidates: candidates}
}

// LoadDir parses the first candidate configuration file present in dir.
// It returns the parsed document and the file path it came from. When
// no candidate exists the error matches ErrNotFound.
func (l *Loader) LoadDir(dir string) (Value, string, error) {
	for _, name := range l.candidates {
		path := filepath.Join(dir, name)
		info, err := l.fs.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		doc, err := l.LoadFile(path)
		if err != nil {
			return Value{}, "", err
		}
		return doc, path, nil
	}
	return Value{}, "", &NotFoundError{Dir: dir, Candidates: l.candidates}
}

// LoadFile parses a configuration file. Files ending in .json are read
// as JSON with comments permitted; everything else is read as YAML
// (which also accepts plain JSON).
func (l *Loader) LoadFile(path string) (Value, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return Value{}, &ParseError{Path: path, Err: err}
	}

	var raw any
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(jsonc.ToJSON(data), &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return Value{}, &ParseError{Path: path, Err: err}
	}

	doc, err := FromAny(raw)
	if err != nil {
		return Value{}, &ParseError{Path: path, Err: err}
	}
	if doc.IsNull() {
		// An empty file is a valid (empty) document.
		return Mapping(nil), nil
	}
	if doc.Kind() != KindMapping {
		return Value{}, &ParseError{Path: path, Err: errNotMapping(doc.Kind())}
	}
	return doc, nil
}

type errNotMapping Kind

func (e errNotMapping) Error() string {
	return "document root must be a mapping, got " + Kind(e).String()
}

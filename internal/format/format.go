// Package format renders resolved configuration values for the CLI in
// the formats the original yapenv supported: yaml, json, a newline-
// separated list, and a shell-quoted cli argument string.
package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrintFormat selects an output rendering.
type PrintFormat string

const (
	// YAML renders the value as a YAML document.
	YAML PrintFormat = "yaml"
	// JSON renders the value as compact JSON.
	JSON PrintFormat = "json"
	// List renders sequences one item per line; nested values as JSON.
	List PrintFormat = "list"
	// CLI renders sequences as a single shell-quotable argument string.
	CLI PrintFormat = "cli"
)

// Parse converts a --format flag value to a PrintFormat.
func Parse(s string) (PrintFormat, error) {
	switch PrintFormat(s) {
	case YAML, JSON, List, CLI:
		return PrintFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected yaml, json, list or cli)", s)
	}
}

// Render returns v printed in the requested format. v holds plain Go
// values (the config Value tree converted via Interface). quote applies
// only to the cli format.
func Render(f PrintFormat, v any, quote bool) (string, error) {
	switch f {
	case YAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n"), nil
	case JSON:
		out, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case List:
		items, err := asList(v)
		if err != nil {
			return "", err
		}
		return strings.Join(items, "\n"), nil
	case CLI:
		items, err := asList(v)
		if err != nil {
			return "", err
		}
		if quote {
			for i, item := range items {
				items[i] = ShellQuote(item)
			}
		}
		return strings.Join(items, " "), nil
	default:
		return "", fmt.Errorf("unknown format %q", f)
	}
}

// asList flattens a value into printable tokens: sequences item by
// item, mappings as alternating key/value tokens (sorted by key), and
// scalars as a single token. Nested structures print as JSON.
func asList(v any) ([]string, error) {
	switch t := v.(type) {
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			s, err := token(item)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
		return items, nil
	case []string:
		return append([]string(nil), t...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, 0, 2*len(t))
		for _, k := range keys {
			s, err := token(t[k])
			if err != nil {
				return nil, err
			}
			items = append(items, k, s)
		}
		return items, nil
	default:
		s, err := token(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func token(v any) (string, error) {
	switch v.(type) {
	case []any, map[string]any:
		out, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case nil:
		return "null", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// plainArgRe matches arguments safe to pass to a shell unquoted.
var plainArgRe = regexp.MustCompile(`^[\w@%+=:,./-]+$`)

// ShellQuote quotes s for a POSIX shell when needed.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if plainArgRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pieceRe splits one dot-separated path piece into its mapping key and
// any trailing bracketed index groups, e.g. "a_list[0][1]".
var pieceRe = regexp.MustCompile(`^([^[\]]*)((?:\[\d+\])*)$`)

var indexRe = regexp.MustCompile(`\[(\d+)\]`)

type pathPiece struct {
	raw     string
	key     string
	indexes []int
}

// Query navigates a value tree with a path expression composed of
// dot-separated mapping keys and bracketed sequence indexes, e.g.
// "my_custom_config.a_list[0].a_key". Any mismatch (wrong node kind,
// missing key, out-of-range index) fails with a PathError naming the
// failing segment and the prefix consumed before it.
func Query(root Value, path string) (Value, error) {
	pieces, err := parsePath(path)
	if err != nil {
		return Value{}, err
	}

	current := root
	var consumed []string
	for _, piece := range pieces {
		prefix := strings.Join(consumed, ".")
		if piece.key != "" {
			if current.Kind() != KindMapping {
				return Value{}, &PathError{
					Path: path, Segment: piece.raw, Prefix: prefix,
					Reason: fmt.Sprintf("expected a mapping, got %s", current.Kind()),
				}
			}
			next, ok := current.Get(piece.key)
			if !ok {
				return Value{}, &PathError{
					Path: path, Segment: piece.raw, Prefix: prefix,
					Reason: fmt.Sprintf("key %q not found", piece.key),
				}
			}
			current = next
		}
		for _, idx := range piece.indexes {
			if current.Kind() != KindSequence {
				return Value{}, &PathError{
					Path: path, Segment: piece.raw, Prefix: prefix,
					Reason: fmt.Sprintf("expected a sequence, got %s", current.Kind()),
				}
			}
			next, ok := current.Index(idx)
			if !ok {
				return Value{}, &PathError{
					Path: path, Segment: piece.raw, Prefix: prefix,
					Reason: fmt.Sprintf("index %d out of range (length %d)", idx, current.Len()),
				}
			}
			current = next
		}
		consumed = append(consumed, piece.raw)
	}
	return current, nil
}

func parsePath(path string) ([]pathPiece, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &PathError{Path: path, Segment: path, Reason: "empty path expression"}
	}
	var pieces []pathPiece
	for _, raw := range strings.Split(path, ".") {
		m := pieceRe.FindStringSubmatch(raw)
		if m == nil || raw == "" {
			return nil, &PathError{Path: path, Segment: raw, Reason: "malformed segment"}
		}
		piece := pathPiece{raw: raw, key: m[1]}
		for _, g := range indexRe.FindAllStringSubmatch(m[2], -1) {
			idx, err := strconv.Atoi(g[1])
			if err != nil {
				return nil, &PathError{Path: path, Segment: raw, Reason: "malformed index"}
			}
			piece.indexes = append(piece.indexes, idx)
		}
		if piece.key == "" && len(piece.indexes) == 0 {
			return nil, &PathError{Path: path, Segment: raw, Reason: "empty segment"}
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

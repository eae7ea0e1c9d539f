// Package mocks provides test doubles for yapenv's filesystem interfaces.
package mocks

import (
	"io/fs"
	"os"
	"time"

	"github.com/LamaAni/yapenv/internal/filesys"
)

var _ filesys.ReadFS = (*MemFS)(nil)

// MemFS is an in-memory implementation of filesys.ReadFS. Paths are
// matched verbatim, so tests should use the same (absolute) paths the
// code under test produces.
type MemFS struct {
	Files map[string]string
}

// NewMemFS creates an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{Files: map[string]string{}}
}

// Stat reports whether a file exists; directories are not modeled.
func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.Files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return memFileInfo{name: path, size: int64(len(m.Files[path]))}, nil
}

// ReadFile returns a file's contents.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	content, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

type memFileInfo struct {
	name string
	size int64
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return f.size }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

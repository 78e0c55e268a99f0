// Package asset reads engine resources from a directory or zip archive and
// decodes images and meshes into upload-ready data.
package asset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// PlaceholderTexture names the built-in texture used when geometry has no
// texture of its own. A file with this name in the source takes precedence.
const PlaceholderTexture = "placeholder.png"

// Source resolves slash-separated asset paths against a file system root.
type Source struct {
	fsys   fs.FS
	closer io.Closer
	name   string
}

// NewSource wraps fsys. Close is a no-op for such sources.
func NewSource(fsys fs.FS) *Source {
	return &Source{fsys: fsys, name: "fs"}
}

// Open returns a source rooted at a directory, or at the contents of a zip
// archive when root ends in ".zip".
func Open(root string) (*Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("asset: open %q: %w", root, err)
	}
	if info.IsDir() {
		return &Source{fsys: os.DirFS(root), name: root}, nil
	}
	if !strings.EqualFold(path.Ext(root), ".zip") {
		return nil, fmt.Errorf("asset: open %q: not a directory or zip archive", root)
	}
	zr, err := zip.OpenReader(root)
	if err != nil {
		return nil, fmt.Errorf("asset: open %q: %w", root, err)
	}
	return &Source{fsys: zr, closer: zr, name: root}, nil
}

func (s *Source) String() string { return s.name }

// FS exposes the underlying file system, for decoders that resolve
// references relative to a file.
func (s *Source) FS() fs.FS { return s.fsys }

// CleanPath turns a scene path into an fs.FS name. A leading slash means
// the source root.
func CleanPath(name string) string {
	return strings.TrimPrefix(path.Clean(name), "/")
}

// ReadFile returns the contents of name.
func (s *Source) ReadFile(name string) ([]byte, error) {
	name = CleanPath(name)
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if name == PlaceholderTexture && errors.Is(err, fs.ErrNotExist) {
			return placeholder(), nil
		}
		return nil, fmt.Errorf("asset: read %q: %w", name, err)
	}
	return data, nil
}

// ReadString returns the contents of name as text.
func (s *Source) ReadString(name string) (string, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases an archive opened by Open.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileTooLarge = errors.New("source: file size limit exceeded")
	ErrNotRegular   = errors.New("source: not a regular file")
)

// DefaultMaxFileSize bounds how much text a single document may hold.
const DefaultMaxFileSize = 5 * 1024 * 1024

// Document is one unit of text handed to the linters.
type Document struct {
	Path string
	Text string
}

// Ext returns the lower-cased file extension of the document.
func (d Document) Ext() string {
	return strings.ToLower(filepath.Ext(d.Path))
}

// Extensions lists the file types picked up when expanding directories.
var Extensions = []string{".py", ".pyi", ".md", ".markdown"}

type Loader struct {
	MaxFileSize int64
}

func NewLoader(maxFileSize int64) *Loader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Loader{MaxFileSize: maxFileSize}
}

// Load reads a document from disk.
func (l *Loader) Load(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	if !info.Mode().IsRegular() {
		return Document{}, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if info.Size() > l.MaxFileSize {
		return Document{}, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{Path: path, Text: string(data)}, nil
}

// Expand replaces every directory in paths with the lintable files below it.
// Plain files are kept as given, whatever their extension.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func skipDir(name string) bool {
	switch name {
	case "vendor", "testdata", "node_modules", "__pycache__":
		return true
	}
	return strings.HasPrefix(name, ".")
}

func hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-designstudio/internal/fileutil"
	"github.com/alnah/go-designstudio/internal/yamlutil"
)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Version int     `yaml:"version"`
	Assets  []Asset `yaml:"assets"`
}

const fileDocumentVersion = 1

// FileStore keeps the catalog as a YAML document. Saves are atomic.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path. The parent directory
// is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the catalog file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the catalog. A missing or empty file is an empty catalog.
func (f *FileStore) Load(ctx context.Context) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path) // #nosec G304 -- configured catalog path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc fileDocument
	if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return doc.Assets, nil
}

// Save writes the full catalog, replacing the file atomically.
func (f *FileStore) Save(ctx context.Context, assets []Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if assets == nil {
		assets = []Asset{}
	}
	data, err := yamlutil.Marshal(fileDocument{Version: fileDocumentVersion, Assets: assets})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	return fileutil.WriteFileAtomic(f.path, data, 0o600)
}

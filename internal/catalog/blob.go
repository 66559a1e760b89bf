package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-designstudio/internal/fileutil"
)

// BlobStore holds asset bytes and hands out locators the preview surface
// can load directly.
type BlobStore interface {
	// Put stores data and returns its locator. ext includes the leading dot.
	Put(ctx context.Context, id string, data []byte, ext string) (string, error)
	Get(ctx context.Context, locator string) ([]byte, error)
	// Delete invalidates the locator. Deleting a missing blob succeeds.
	Delete(ctx context.Context, locator string) error
}

// Compile-time interface checks.
var (
	_ BlobStore = (*FileBlobStore)(nil)
	_ BlobStore = DataBlobStore{}
)

// FileBlobStore writes one file per asset and hands out file:// locators.
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates the directory if needed.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBlobPath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlobPath, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlobPath, err)
	}
	return &FileBlobStore{dir: abs}, nil
}

// Dir returns the absolute blob directory.
func (f *FileBlobStore) Dir() string {
	return f.dir
}

// Put writes <dir>/<id><ext> atomically.
func (f *FileBlobStore) Put(ctx context.Context, id string, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := id + ext
	if strings.ContainsAny(name, "/\\\x00") || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid blob name %q", ErrBlobWrite, name)
	}
	path := filepath.Join(f.dir, name)
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBlobWrite, err)
	}
	return fileutil.FileURL(path), nil
}

// Get reads the file behind a locator issued by this store.
func (f *FileBlobStore) Get(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.pathFor(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- contained in blob dir
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobRead, err)
	}
	return data, nil
}

// Delete removes the file behind a locator.
func (f *FileBlobStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.pathFor(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

// pathFor maps a locator to a path inside the blob directory.
func (f *FileBlobStore) pathFor(locator string) (string, error) {
	path, err := fileutil.PathFromFileURL(locator)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownLocator, err)
	}
	rel, err := filepath.Rel(f.dir, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocator, locator)
	}
	return path, nil
}

// DataBlobStore embeds bytes in data: URIs. Nothing is written anywhere,
// so Delete has nothing to release.
type DataBlobStore struct{}

// Put returns a base64 data URI carrying the detected media type.
func (DataBlobStore) Put(ctx context.Context, _ string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DataURI(DetectMediaType(data), data), nil
}

// Get decodes a data URI produced by Put.
func (DataBlobStore) Get(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, data, err := ParseDataURI(locator)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete is a no-op.
func (DataBlobStore) Delete(ctx context.Context, _ string) error {
	return ctx.Err()
}

// DataURI builds a base64 data URI.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURI splits a base64 data URI into media type and bytes.
func ParseDataURI(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, fmt.Errorf("%w: not a data URI", ErrUnknownLocator)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrUnknownLocator)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBlobRead, err)
	}
	return strings.TrimSuffix(header, ";base64"), data, nil
}

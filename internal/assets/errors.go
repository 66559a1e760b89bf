package assets

import "errors"

// Lookup failures.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrFormatsNotFound  = errors.New("format catalog not found")
)

// Validation and I/O failures.
var (
	// ErrInvalidFormat covers a missing or duplicate id and dimensions
	// outside 1..MaxFormatDimension.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidAssetName rejects names with separators or "..".
	ErrInvalidAssetName = errors.New("invalid asset name")

	ErrInvalidBasePath = errors.New("invalid base path")
	ErrAssetRead       = errors.New("failed to read asset")

	// ErrPathTraversal means a resolved path left the base directory.
	ErrPathTraversal = errors.New("path traversal detected")
)

package catalog

import "errors"

// Sentinel errors for catalog operations.
var (
	ErrEmptyAsset      = errors.New("asset is empty")
	ErrNotImage        = errors.New("asset is not an image")
	ErrAssetTooLarge   = errors.New("asset exceeds maximum size")
	ErrInvalidLocator  = errors.New("blob store returned an invalid locator")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrStoreLoad       = errors.New("failed to load asset catalog")
	ErrStoreSave       = errors.New("failed to persist asset catalog")
	ErrBlobWrite       = errors.New("failed to store asset bytes")
	ErrBlobRead        = errors.New("failed to read asset bytes")
	ErrUnknownLocator  = errors.New("locator does not belong to this blob store")
	ErrInvalidBlobPath = errors.New("invalid blob directory")
)

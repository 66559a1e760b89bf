package surface

import "errors"

// Sentinel errors for surface operations.
var (
	ErrInvalidDimensions = errors.New("invalid surface dimensions")
	ErrAlreadyMounted    = errors.New("surface is already mounted")
	ErrNotMounted        = errors.New("surface is not mounted")
	ErrClosed            = errors.New("surface is closed")
	ErrInvalidMessage    = errors.New("invalid surface message")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load surface document")
	ErrDeliver           = errors.New("failed to deliver message to surface")
	ErrCapture           = errors.New("failed to capture surface")
	ErrPrint             = errors.New("failed to print surface")
	ErrInvalidEncoding   = errors.New("invalid image encoding")
)

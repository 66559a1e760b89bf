package designstudio

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrNoFormat               = errors.New("no output format selected")
	ErrFormatNotFound         = errors.New("format not found")
	ErrInvalidFormat          = errors.New("invalid format")
	ErrGenerationInProgress   = errors.New("a generation is already in progress; retry when it finishes")
	ErrGenerationSuperseded   = errors.New("the format changed while the design was generating")
	ErrEmptyPrompt            = errors.New("prompt cannot be empty")
	ErrNoCompleter            = errors.New("no model configured")
	ErrModelResponse          = errors.New("model request failed")
	ErrExport                 = errors.New("export failed")
	ErrCapture                = errors.New("capture failed")
	ErrInvalidAssetPath       = errors.New("invalid asset path")
	ErrInvalidScale           = errors.New("invalid scale")
	ErrInvalidImageOptions    = errors.New("invalid image options")
	ErrRendererUnavailable    = errors.New("renderer unavailable")
	ErrExplanationUnavailable = errors.New("explanation could not be rendered")
)

// ExportError reports a failed export with a human-readable reason.
// It matches both its kind (ErrExport or ErrCapture) and the cause with
// errors.Is.
type ExportError struct {
	Op     string // "html", "image" or "pdf"
	Reason string
	Kind   error
	Err    error
}

func (e *ExportError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.kind(), e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the kind and the cause.
func (e *ExportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind()}
	}
	return []error{e.kind(), e.Err}
}

func (e *ExportError) kind() error {
	if e.Kind == nil {
		return ErrExport
	}
	return e.Kind
}

func exportError(op string, kind error, reason string, err error) *ExportError {
	return &ExportError{Op: op, Reason: reason, Kind: kind, Err: err}
}

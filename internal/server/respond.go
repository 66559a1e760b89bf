package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/pipeline"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a message a user can act on.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	var exp *designstudio.ExportError
	if errors.As(err, &exp) {
		msg = exp.Op + " export failed: " + exp.Reason
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, designstudio.ErrEmptyPrompt),
		errors.Is(err, designstudio.ErrInvalidFormat),
		errors.Is(err, designstudio.ErrInvalidImageOptions),
		errors.Is(err, designstudio.ErrInvalidScale),
		errors.Is(err, catalog.ErrEmptyAsset):
		return http.StatusBadRequest
	case errors.Is(err, designstudio.ErrFormatNotFound),
		errors.Is(err, catalog.ErrAssetNotFound),
		errors.Is(err, pipeline.ErrUnknownSourceKind):
		return http.StatusNotFound
	case errors.Is(err, designstudio.ErrNoFormat),
		errors.Is(err, designstudio.ErrGenerationInProgress),
		errors.Is(err, designstudio.ErrGenerationSuperseded):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrAssetTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, catalog.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, designstudio.ErrNoCompleter),
		errors.Is(err, designstudio.ErrRendererUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, designstudio.ErrModelResponse),
		errors.Is(err, model.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

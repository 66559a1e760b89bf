package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alnah/go-designstudio/internal/catalog"
)

// uploadField is the multipart field holding the image.
const uploadField = "file"

func (s *Server) handleListAssets(w http.ResponseWriter, _ *http.Request) {
	assets := s.studio.Catalog().List()
	if assets == nil {
		assets = []catalog.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+uploadOverhead)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", catalog.ErrAssetTooLarge, s.maxUpload))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: expected a multipart %q field: %v", errBadRequest, uploadField, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: reading upload: %v", errBadRequest, err))
		return
	}
	if int64(len(data)) > s.maxUpload {
		s.writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", catalog.ErrAssetTooLarge, s.maxUpload))
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	asset, err := s.studio.Catalog().Register(r.Context(), data, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Catalog().Release(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssetBlob(w http.ResponseWriter, r *http.Request) {
	cat := s.studio.Catalog()
	asset, ok := cat.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", catalog.ErrAssetNotFound, chi.URLParam(r, "id")))
		return
	}
	data, mediaType, err := cat.ReadBlob(r.Context(), asset.Locator)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(data)
}

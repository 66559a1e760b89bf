package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/surface"
)

// sessionView is the session as the front end sees it.
type sessionView struct {
	Format     *designstudio.Format  `json:"format"`
	Document   designstudio.Document `json:"document"`
	Pristine   bool                  `json:"pristine"`
	Generating bool                  `json:"generating"`
}

type selectFormatRequest struct {
	FormatID string `json:"formatId"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Document        designstudio.Document `json:"document"`
	Explanation     string                `json:"explanation"`
	ExplanationHTML string                `json:"explanationHtml"`
	Message         string                `json:"message"`
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Formats())
}

func (s *Server) sessionView() sessionView {
	sess := s.studio.Session()
	v := sessionView{
		Document:   sess.Document(),
		Pristine:   sess.Pristine(),
		Generating: sess.Generating(),
	}
	if f, ok := sess.Format(); ok {
		v.Format = &f
	}
	return v
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleSelectFormat(w http.ResponseWriter, r *http.Request) {
	var req selectFormatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.FormatID == "" {
		s.writeError(w, r, fmt.Errorf("%w: formatId is required", errBadRequest))
		return
	}
	if _, err := s.studio.SelectFormat(req.FormatID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var doc designstudio.Document
	if err := decodeJSON(r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.studio.SetDocument(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.studio.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Document:        res.Document,
		Explanation:     res.Explanation,
		ExplanationHTML: res.ExplanationHTML,
		Message:         res.Message,
	})
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	out, err := s.studio.Source(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleSourceStyles(w http.ResponseWriter, r *http.Request) {
	css, err := s.studio.SourceStyles()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, css)
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	data, err := s.studio.ExportHTML(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, data, "text/html; charset=utf-8", s.filename("html"))
}

func (s *Server) handleExportImage(w http.ResponseWriter, r *http.Request) {
	opts, err := imageOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.studio.ExportImage(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	enc := opts.Encoding
	if enc == "" {
		enc = surface.EncodingPNG
	}
	writeFile(w, data, "image/"+string(enc), s.filename(string(enc)))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	data, err := s.studio.ExportPDF(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, data, "application/pdf", s.filename("pdf"))
}

// filename names an export after the selected format.
func (s *Server) filename(ext string) string {
	name := "design"
	if f, ok := s.studio.Session().Format(); ok {
		name = "design-" + f.ID
	}
	return name + "." + ext
}

func imageOptions(r *http.Request) (designstudio.ImageOptions, error) {
	q := r.URL.Query()
	opts := designstudio.ImageOptions{Encoding: surface.Encoding(strings.ToLower(q.Get("encoding")))}
	if opts.Encoding == "jpg" {
		opts.Encoding = surface.EncodingJPEG
	}
	if v := q.Get("quality"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: quality must be a number", errBadRequest)
		}
		opts.Quality = n
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: scale must be a number", errBadRequest)
		}
		opts.Scale = f
	}
	return opts, nil
}

func writeFile(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// maxJSONBody bounds request documents; designs are text.
const maxJSONBody = 4 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

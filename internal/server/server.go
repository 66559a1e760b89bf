package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
)

// Studio is the part of *designstudio.Studio the API drives.
type Studio interface {
	Formats() []designstudio.Format
	SelectFormat(id string) (designstudio.Format, error)
	Session() *designstudio.Session
	SetDocument(doc designstudio.Document) error
	Generate(ctx context.Context, prompt string) (*designstudio.GenerateResult, error)
	Source(kind string) (string, error)
	SourceStyles() (string, error)
	Catalog() *catalog.Catalog
	ExportHTML(ctx context.Context) ([]byte, error)
	ExportImage(ctx context.Context, opts designstudio.ImageOptions) ([]byte, error)
	ExportPDF(ctx context.Context) ([]byte, error)
}

var _ Studio = (*designstudio.Studio)(nil)

// Defaults for Server.
const (
	DefaultAddr            = "127.0.0.1:8080"
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// uploadOverhead covers multipart framing around the file itself.
const uploadOverhead = 1 << 20

// Server serves the design API.
type Server struct {
	studio    Studio
	logger    *slog.Logger
	maxUpload int64
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxUpload bounds asset uploads in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New builds a Server around studio.
func New(studio Studio, opts ...Option) *Server {
	s := &Server{
		studio:    studio,
		logger:    slog.New(slog.DiscardHandler),
		maxUpload: catalog.DefaultMaxAssetSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/api/formats", s.handleFormats)

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/", s.handleSelectFormat)
		r.Put("/document", s.handlePutDocument)
		r.Post("/generate", s.handleGenerate)
		r.Get("/source/{kind}", s.handleSource)
		r.Get("/source.css", s.handleSourceStyles)
	})

	r.Route("/api/assets", func(r chi.Router) {
		r.Get("/", s.handleListAssets)
		r.Post("/", s.handleUploadAsset)
		r.Delete("/{id}", s.handleDeleteAsset)
		r.Get("/{id}/blob", s.handleAssetBlob)
	})

	r.Route("/api/export", func(r chi.Router) {
		r.Get("/html", s.handleExportHTML)
		r.Get("/image", s.handleExportImage)
		r.Get("/pdf", s.handleExportPDF)
	})
	return r
}

// logRequests logs one line per request at info level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Package server exposes the extraction tool over HTTP for browser clients:
// upload a source file, preview the extracted model, download export
// artifacts. Sessions are in-memory only; nothing here persists.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/docpane/docsift/internal/artifact"
	"github.com/docpane/docsift/internal/export"
	"github.com/docpane/docsift/internal/extractor"
	"github.com/docpane/docsift/internal/render"
	"github.com/docpane/docsift/internal/session"
)

const defaultMaxUploadBytes = 32 << 20

// Server wires the session store and the extraction provider into HTTP
// handlers.
type Server struct {
	Store    *session.Store
	Provider extractor.Provider
	// AllowedOrigins for CORS; empty means same-origin only.
	AllowedOrigins []string
	// MaxUploadBytes bounds the multipart source upload. Zero means default.
	MaxUploadBytes int64
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if len(s.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/documents", s.handleUpload)
		api.Get("/documents/{id}", s.handleStatus)
		api.Get("/documents/{id}/preview", s.handlePreview)
		api.Get("/documents/{id}/export/{format}", s.handleExport)
		api.Delete("/documents/{id}", s.handleDelete)
	})
	return r
}

// documentResponse is the wire shape returned for a session.
type documentResponse struct {
	ID       string        `json:"id"`
	State    session.State `json:"state"`
	Source   string        `json:"source"`
	Elements int           `json:"elements"`
	Error    string        `json:"error,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()
	source, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload", http.StatusBadRequest)
		return
	}

	sourceName := filepath.Base(header.Filename)
	sess := s.Store.Create(sourceName)
	if err := sess.StartExtraction(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	doc, err := s.Provider.Extract(r.Context(), sourceName, source)
	if err != nil {
		sess.FailExtraction(err)
		log.Error().Err(err).Str("source", sourceName).Msg("extraction failed")
		writeJSON(w, http.StatusBadGateway, s.response(sess))
		return
	}
	sess.CompleteExtraction(doc)
	writeJSON(w, http.StatusCreated, s.response(sess))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.response(sess))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	doc, ok := sess.Document()
	if !ok {
		http.Error(w, "no extracted document", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(render.HTML(doc))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format, ok := artifact.FormatFor(chi.URLParam(r, "format"))
	if !ok {
		http.Error(w, "unknown export format", http.StatusNotFound)
		return
	}
	// UI-level precondition: export is only offered for a non-empty model.
	if !sess.CanExport() {
		http.Error(w, "nothing to export", http.StatusConflict)
		return
	}
	doc, _ := sess.Document()

	var data []byte
	var err error
	switch format {
	case artifact.Text:
		data = export.Text(doc)
	case artifact.PDF:
		data, err = export.PDF(doc)
	case artifact.XLSX:
		data, err = export.XLSX(doc)
	}
	if err != nil {
		var serr *export.SerializationError
		if errors.As(err, &serr) {
			log.Error().Int("element", serr.Index).Str("kind", string(serr.Kind)).Err(serr.Err).Msg("export failed")
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	name := artifact.Name(sess.SourceName(), format)
	w.Header().Set("Content-Type", format.MIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.Store.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) response(sess *session.Session) documentResponse {
	elements := 0
	if doc, ok := sess.Document(); ok {
		elements = len(doc)
	}
	return documentResponse{
		ID:       sess.ID,
		State:    sess.State(),
		Source:   sess.SourceName(),
		Elements: elements,
		Error:    sess.LastError(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

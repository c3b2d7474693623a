// Package server exposes the export operations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	mdexport "github.com/alnah/go-mdexport"
)

// Exporter is the export surface the server drives. Satisfied by
// *mdexport.Exporter.
type Exporter interface {
	ExportHTML(ctx context.Context, path string, diagrams []mdexport.Diagram) (*mdexport.Artifact, error)
	ExportPDF(ctx context.Context, path string, diagrams []mdexport.Diagram) (*mdexport.Artifact, error)
	ExportDOCX(ctx context.Context, path string, diagrams []mdexport.Diagram) (*mdexport.Artifact, error)
}

// exportRequest is the JSON body of every export endpoint.
type exportRequest struct {
	Path            string             `json:"path"`
	MermaidDiagrams []mdexport.Diagram `json:"mermaidDiagrams,omitempty"`
}

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// Server handles export requests.
type Server struct {
	exporter Exporter
	logger   *zap.Logger
	addr     string
}

// New creates a Server listening on addr.
func New(exporter Exporter, logger *zap.Logger, addr string) *Server {
	return &Server{exporter: exporter, logger: logger, addr: addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/export/html", s.exportHandler(s.exporter.ExportHTML))
	mux.HandleFunc("/export/pdf", s.exportHandler(s.exporter.ExportPDF))
	mux.HandleFunc("/export/docx", s.exportHandler(s.exporter.ExportDOCX))
	mux.HandleFunc("/healthz", s.handleHealth)

	return s.loggingMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		// Exports can take a while: Chrome launch plus page load.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("export server starting", zap.String("addr", s.addr))

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// exportFunc is one of the three export operations.
type exportFunc func(ctx context.Context, path string, diagrams []mdexport.Diagram) (*mdexport.Artifact, error)

// exportHandler adapts an export operation to an HTTP endpoint: decode the
// JSON request, run the export, stream the artifact as an attachment.
func (s *Server) exportHandler(export exportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		artifact, err := export(r.Context(), req.Path, req.MermaidDiagrams)
		if err != nil {
			s.writeExportError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", artifact.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.Data)
	}
}

// writeExportError maps export errors to status codes. The sentinel message
// is the response body; wrapped detail stays in the log.
func (s *Server) writeExportError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mdexport.ErrNoPath):
		status = http.StatusBadRequest
	case errors.Is(err, mdexport.ErrDocumentNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("export failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeError(w, status, rootMessage(err))
}

// rootMessage returns the sentinel's message for the known export errors and
// the full chain otherwise.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		mdexport.ErrNoPath,
		mdexport.ErrDocumentNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// loggingMiddleware logs one line per request with its duration and status.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Package server hosts the rendered site locally with live export and
// history endpoints, so the pages can be checked before publishing.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/export"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/resolver"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// Server is the preview server. It owns one resolver instance, so original
// link attributes cached on the first pin survive across requests and
// unpinning restores them verbatim.
type Server struct {
	addr        string
	logger      *logrus.Logger
	site        *site.Site
	resolver    *resolver.Resolver
	tableMarker string
	router      *chi.Mux
}

// New builds the preview server. The resolver may be nil when the site has
// no global history control; the history endpoints then answer 404.
func New(addr string, logger *logrus.Logger, s *site.Site, r *resolver.Resolver, tableMarker string) *Server {
	srv := &Server{
		addr:        addr,
		logger:      logger,
		site:        s,
		resolver:    r,
		tableMarker: tableMarker,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(srv.logRequests)

	router.Get("/api/history", srv.handleHistory)
	router.Post("/api/pin/{day}", srv.handlePin)
	router.Post("/api/live", srv.handleLive)
	router.Get("/api/export/{format}/*", srv.handleExport)
	router.Get("/*", srv.handlePage)

	srv.router = router
	return srv
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("Preview server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

// handleHistory returns the day options as JSON, fetching them on first
// use.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		http.Error(w, "no history control on this site", http.StatusNotFound)
		return
	}
	if s.resolver.Phase() == resolver.PhaseLoading {
		s.resolver.Load(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"phase":    s.resolver.Phase().String(),
		"selected": s.resolver.Selected(),
		"status":   s.resolver.Status(),
		"options":  s.resolver.Options(),
	})
}

// handlePin selects a historical day; the rewritten pages are served on
// subsequent requests.
func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		http.Error(w, "no history control on this site", http.StatusNotFound)
		return
	}
	if s.resolver.Phase() == resolver.PhaseLoading {
		s.resolver.Load(r.Context())
	}

	day := chi.URLParam(r, "day")
	if err := s.resolver.Select(day); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLive returns to the live branch view.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		http.Error(w, "no history control on this site", http.StatusNotFound)
		return
	}
	s.resolver.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport streams one table of one page in the requested format. The
// wildcard carries "<page path>/<table index>".
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	exporter, err := export.ByFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rel, index, err := splitExportTarget(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := s.site.PageByRel(rel)
	if page == nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	snaps := table.Extract(page.Doc, page.Rel, s.tableMarker)
	if index < 1 || index > len(snaps) {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}
	snap := snaps[index-1]

	data, err := exporter.Export(snap)
	if err != nil {
		s.logger.WithError(err).Error("export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.MimeType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", snap.FileName(exporter.Extension())))
	w.Write(data)
}

// handlePage serves pages from the in-memory documents, so pinned links are
// visible without rewriting files on disk.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" || rel == "/" {
		rel = "index.html"
	}

	page := s.site.PageByRel(rel)
	if page == nil {
		if s.site.Dir != "" {
			// Static assets (css, images) come straight from disk.
			http.ServeFile(w, r, filepath.Join(s.site.Dir, filepath.FromSlash(path.Clean("/"+rel))))
			return
		}
		http.NotFound(w, r)
		return
	}

	data, err := page.Render()
	if err != nil {
		s.logger.WithError(err).Error("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// splitExportTarget splits "stats/sparten.html/1" into the page path and
// the 1-based table index.
func splitExportTarget(target string) (string, int, error) {
	slash := -1
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return "", 0, fmt.Errorf("export target must be <page>/<index>")
	}
	index, err := strconv.Atoi(target[slash+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid table index %q", target[slash+1:])
	}
	return target[:slash], index, nil
}

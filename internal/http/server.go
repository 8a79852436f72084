// Package http is the web shell: routing, middleware, template rendering
// and the snapshot cache in front of the ledger backend.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gagebu/internal/cache"
	"gagebu/internal/core"
	"gagebu/internal/ledger"
	appweb "gagebu/web"
)

const snapshotKey = "ledger"

type Server struct {
	http.Server
	templates    *template.Template
	store        ledger.Store
	normalizer   core.DayNormalizer
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once

	// One cached snapshot feeds every partial; writes drop it.
	snapshotCache *cache.LRUCache[ledger.Snapshot]
	cacheManager  *cache.Manager
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store ledger.Store, normalizer core.DayNormalizer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:         store,
		normalizer:    normalizer,
		rateLimiter:   newRateLimiter(),
		snapshotCache: cache.NewLRUCache[ledger.Snapshot](4, 2*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	// UI partials
	mux.HandleFunc("/ui/calendar", s.withSecurityHeaders(s.handleCalendar))
	mux.HandleFunc("/ui/day", s.withSecurityHeaders(s.handleDay))
	mux.HandleFunc("/ui/chart", s.withSecurityHeaders(s.handleChart))

	return s
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// snapshot returns the cached ledger snapshot, fetching on miss.
func (s *Server) snapshot(ctx context.Context) (ledger.Snapshot, error) {
	if snap, ok := s.snapshotCache.Get(snapshotKey); ok {
		slog.DebugContext(ctx, "Snapshot cache hit", "transactions", len(snap.Transactions))
		return snap, nil
	}

	// Bounded so a slow remote cannot hang a partial.
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	snap, err := ledger.LoadSnapshot(cctx, s.store, s.store)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load ledger snapshot: %w", err)
	}

	s.snapshotCache.Set(snapshotKey, snap)
	slog.DebugContext(ctx, "Snapshot cached",
		"transactions", len(snap.Transactions),
		"accounts", snap.Catalog.Len())
	return snap, nil
}

func (s *Server) invalidateSnapshot() {
	s.snapshotCache.Delete(snapshotKey)
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging to a handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for the completion log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady answers ready once the backend serves account reads.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.store.ListAccounts(ctx); err != nil {
		slog.WarnContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

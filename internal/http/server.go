// Package http wires the web routes of the application: the session
// based HTML pages and the JSON feeds the dashboard widgets consume.
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
	"time"

	"github.com/gustavotrrsenac/datefy/internal/config"
	"github.com/gustavotrrsenac/datefy/internal/notify"
	"github.com/gustavotrrsenac/datefy/internal/storage"
	appweb "github.com/gustavotrrsenac/datefy/web"
)

type Server struct {
	http.Server
	templates *template.Template
	repo      *storage.SQLiteRepository

	// notifier is optional; nil drops publishes silently.
	notifier *notify.Client

	sessionTTL   time.Duration
	secureCookie bool
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(cfg *config.Config, repo *storage.SQLiteRepository, notifier *notify.Client) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		repo:         repo,
		notifier:     notifier,
		sessionTTL:   cfg.SessionTTL,
		secureCookie: cfg.SecureCookie,
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"reais": formatReais,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Public pages
	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("GET /login", s.withSecurityHeaders(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("GET /criar-conta", s.withSecurityHeaders(s.handleCriarContaPage))
	mux.HandleFunc("POST /criar-conta", s.withSecurityHeaders(s.handleCriarConta))
	mux.HandleFunc("GET /recuperar-senha", s.withSecurityHeaders(s.handleRecuperarSenhaPage))
	mux.HandleFunc("POST /recuperar-senha", s.withSecurityHeaders(s.handleRecuperarSenha))
	mux.HandleFunc("GET /logout", s.withSecurityHeaders(s.handleLogout))

	// Session-protected pages
	mux.HandleFunc("GET /dashboard", s.withSecurityHeaders(s.requireUser(s.handleDashboard)))
	mux.HandleFunc("GET /perfil", s.withSecurityHeaders(s.requireUser(s.handlePerfil)))
	mux.HandleFunc("GET /editar_perfil", s.withSecurityHeaders(s.requireUser(s.handleEditarPerfil)))
	mux.HandleFunc("POST /editar_perfil", s.withSecurityHeaders(s.requireUser(s.handleSalvarPreferencias)))
	mux.HandleFunc("POST /salvar_preferencias", s.withSecurityHeaders(s.requireUser(s.handleSalvarPreferencias)))

	mux.HandleFunc("GET /vida-pessoal", s.withSecurityHeaders(s.requireUser(s.handleVidaPessoal)))
	mux.HandleFunc("GET /add-tarefa", s.withSecurityHeaders(s.requireUser(s.handleAddTarefaPage)))
	mux.HandleFunc("POST /salvar-tarefa", s.withSecurityHeaders(s.requireUser(s.handleSalvarTarefa)))
	mux.HandleFunc("GET /concluir-tarefa/{id}", s.withSecurityHeaders(s.requireUser(s.handleConcluirTarefa)))
	mux.HandleFunc("GET /desfazer-tarefa/{id}", s.withSecurityHeaders(s.requireUser(s.handleDesfazerTarefa)))
	mux.HandleFunc("GET /excluir_tarefa/{id}", s.withSecurityHeaders(s.requireUser(s.handleExcluirTarefa)))

	mux.HandleFunc("GET /financas", s.withSecurityHeaders(s.requireUser(s.handleFinancasPage)))
	mux.HandleFunc("POST /financas", s.withSecurityHeaders(s.requireUser(s.handleCriarFinanca)))
	mux.HandleFunc("POST /apagar/{id}", s.withSecurityHeaders(s.requireUser(s.handleApagarFinanca)))

	// JSON feeds
	mux.HandleFunc("GET /api/tarefas", s.withSecurityHeaders(s.requireUserJSON(s.handleTarefasFeed)))
	mux.HandleFunc("GET /financas/data", s.withSecurityHeaders(s.requireUserJSON(s.handleFinancasData)))
	mux.HandleFunc("GET /api/lembretes", s.withSecurityHeaders(s.requireUserJSON(s.handleListLembretes)))
	mux.HandleFunc("POST /api/lembretes", s.withSecurityHeaders(s.requireUserJSON(s.handleCriarLembrete)))
	mux.HandleFunc("POST /api/lembretes/excluir/{id}", s.withSecurityHeaders(s.requireUserJSON(s.handleExcluirLembrete)))

	return s
}

// withSecurityHeaders adds security headers and request logging to responses.
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
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://cdn.jsdelivr.net https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
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

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
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

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleIndex routes the root path to the dashboard or the login page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessionUser(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

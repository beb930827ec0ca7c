package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

const sessionCookieName = "datefy_session"

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUsuario
)

// sessionUser resolves the request's session cookie to its account.
func (s *Server) sessionUser(r *http.Request) (*core.Usuario, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSessao(r.Context(), cookie.Value)
}

// requireUser gates HTML routes: anonymous requests are sent to /login.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.sessionUser(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUsuario, u)))
	}
}

// requireUserJSON gates the JSON feeds: anonymous requests get a 401
// body that leaks nothing about the route's data.
func (s *Server) requireUserJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.sessionUser(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUsuario, u)))
	}
}

// currentUser returns the account placed in the context by requireUser.
func currentUser(r *http.Request) *core.Usuario {
	u, _ := r.Context().Value(ctxKeyUsuario).(*core.Usuario)
	return u
}

// startSession creates a server-side session row and sets its cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, token string, usuarioID int64) error {
	expiraEm := time.Now().Add(s.sessionTTL)
	if err := s.repo.CreateSessao(r.Context(), token, usuarioID, expiraEm); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// endSession deletes the session row and expires the cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.repo.DeleteSessao(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Failed deleting sessao", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

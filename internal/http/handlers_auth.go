package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gustavotrrsenac/datefy/internal/auth"
	"github.com/gustavotrrsenac/datefy/internal/storage"
)

// authPage is the view model of the unauthenticated pages.
type authPage struct {
	Error string
	Flash string
	Email string
	Nome  string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessionUser(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", authPage{Flash: s.popFlash(w, r)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	senha := r.Form.Get("senha")

	// One generic failure message for unknown email and wrong password
	// alike; which half failed is never disclosed.
	fail := func() {
		s.renderStatus(w, r, http.StatusUnauthorized, "login.html",
			authPage{Error: "E-mail ou senha inválidos.", Email: email})
	}

	u, err := s.repo.GetUsuarioByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, storage.ErrNaoEncontrado) {
			slog.ErrorContext(r.Context(), "Login lookup failed", "error", err)
		}
		fail()
		return
	}
	if !auth.CheckPassword(senha, u.SenhaHash) {
		slog.InfoContext(r.Context(), "Login rejected", "usuario_id", u.ID)
		fail()
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.ErrorContext(r.Context(), "Session token generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := s.startSession(w, r, token, u.ID); err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Login succeeded", "usuario_id", u.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleCriarContaPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "criar_conta.html", authPage{Flash: s.popFlash(w, r)})
}

func (s *Server) handleCriarConta(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	nome := sanitizeInput(r.Form.Get("nome"))
	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	senha := r.Form.Get("senha")
	confirmar := r.Form.Get("confirmar_senha")

	retry := func(msg string) {
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "criar_conta.html",
			authPage{Error: msg, Nome: nome, Email: email})
	}

	if nome == "" || email == "" || senha == "" {
		retry("Preencha nome, e-mail e senha.")
		return
	}
	if senha != confirmar {
		retry("As senhas não conferem.")
		return
	}

	hash, err := auth.HashPassword(senha)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if _, err := s.repo.CreateUsuario(r.Context(), nome, email, hash); err != nil {
		if errors.Is(err, storage.ErrEmailEmUso) {
			retry("E-mail já cadastrado.")
			return
		}
		slog.ErrorContext(r.Context(), "Account creation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.setFlash(w, "Conta criada com sucesso! Faça login para continuar.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRecuperarSenhaPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "recuperar_senha.html", authPage{Flash: s.popFlash(w, r)})
}

// handleRecuperarSenha queues a simulated recovery e-mail. The response
// is identical whether or not the address exists.
func (s *Server) handleRecuperarSenha(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))

	if email != "" {
		if _, err := s.repo.GetUsuarioByEmail(r.Context(), email); err == nil {
			if err := s.notifier.PublishResetSenha(r.Context(), email); err != nil {
				slog.ErrorContext(r.Context(), "Failed publishing reset-senha notice", "error", err)
			}
		}
	}

	s.setFlash(w, "Se o e-mail estiver cadastrado, você receberá as instruções de recuperação.")
	http.Redirect(w, r, "/recuperar-senha", http.StatusSeeOther)
}

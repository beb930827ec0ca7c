package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gustavotrrsenac/datefy/internal/auth"
	"github.com/gustavotrrsenac/datefy/internal/core"
	"github.com/gustavotrrsenac/datefy/internal/storage"
)

type dashboardPage struct {
	User         *core.Usuario
	Entradas     int64 // centavos
	Saidas       int64
	TotalGastos  int64
	TarefasDoDia int
	Flash        string
	Error        string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	porTipo, err := s.repo.SomasPorTipo(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed summing por tipo", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	tarefasDoDia, err := s.repo.CountTarefasDoDia(r.Context(), u.ID, hoje())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed counting tarefas do dia", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := dashboardPage{
		User:         u,
		TarefasDoDia: tarefasDoDia,
		Flash:        s.popFlash(w, r),
	}
	for _, t := range porTipo {
		switch t.Tipo {
		case core.TipoEntrada:
			page.Entradas += t.Centavos
		case core.TipoSaida:
			page.Saidas += t.Centavos
		}
	}
	page.TotalGastos = page.Entradas - page.Saidas

	s.render(w, r, "dashboard.html", page)
}

type perfilPage struct {
	User  *core.Usuario
	Flash string
	Error string
}

func (s *Server) handlePerfil(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "perfil.html", perfilPage{User: currentUser(r), Flash: s.popFlash(w, r)})
}

func (s *Server) handleEditarPerfil(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "editar_perfil.html", perfilPage{User: currentUser(r), Flash: s.popFlash(w, r)})
}

// handleSalvarPreferencias updates the profile and, when the three
// password fields are filled, changes the password after verifying the
// current one. Notification checkboxes on the form are accepted and
// ignored; there is no channel to deliver on.
func (s *Server) handleSalvarPreferencias(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	nome := sanitizeInput(r.Form.Get("nome"))
	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	if nome == "" {
		nome = u.Nome
	}
	if email == "" {
		email = u.Email
	}

	retry := func(msg string) {
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "editar_perfil.html",
			perfilPage{User: u, Error: msg})
	}

	senhaAtual := r.Form.Get("senha_atual")
	novaSenha := r.Form.Get("nova_senha")
	confirmar := r.Form.Get("confirmar_senha")
	trocarSenha := senhaAtual != "" || novaSenha != "" || confirmar != ""

	if trocarSenha {
		if senhaAtual == "" || novaSenha == "" || confirmar == "" {
			retry("Para trocar a senha, preencha a senha atual, a nova senha e a confirmação.")
			return
		}
		if !auth.CheckPassword(senhaAtual, u.SenhaHash) {
			retry("Senha atual incorreta.")
			return
		}
		if novaSenha != confirmar {
			retry("A nova senha e a confirmação não conferem.")
			return
		}
	}

	if err := s.repo.UpdatePerfil(r.Context(), u.ID, nome, email); err != nil {
		if errors.Is(err, storage.ErrEmailEmUso) {
			retry("E-mail já cadastrado por outra conta.")
			return
		}
		slog.ErrorContext(r.Context(), "Failed updating perfil", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if trocarSenha {
		hash, err := auth.HashPassword(novaSenha)
		if err != nil {
			slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := s.repo.UpdateSenhaHash(r.Context(), u.ID, hash); err != nil {
			slog.ErrorContext(r.Context(), "Failed updating senha", "error", err, "usuario_id", u.ID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	s.setFlash(w, "Preferências salvas.")
	http.Redirect(w, r, "/perfil", http.StatusSeeOther)
}

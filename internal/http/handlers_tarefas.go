package http

import (
	"log/slog"
	"net/http"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

const corTarefaFeed = "#FF5722"

type vidaPessoalPage struct {
	User    *core.Usuario
	Tarefas []core.Tarefa
	Flash   string
	Error   string
}

func (s *Server) handleVidaPessoal(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	tarefas, err := s.repo.ListTarefas(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing tarefas", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "vida_pessoal.html", vidaPessoalPage{
		User:    u,
		Tarefas: tarefas,
		Flash:   s.popFlash(w, r),
	})
}

func (s *Server) handleAddTarefaPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "tarefas.html", vidaPessoalPage{
		User:  currentUser(r),
		Flash: s.popFlash(w, r),
	})
}

func (s *Server) handleSalvarTarefa(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	t := core.Tarefa{
		UsuarioID: u.ID,
		Titulo:    sanitizeInput(r.Form.Get("titulo")),
		Descricao: sanitizeInput(r.Form.Get("descricao")),
		Data:      sanitizeInput(r.Form.Get("data")),
		Categoria: sanitizeInput(r.Form.Get("categoria")),
	}
	if t.Data == "" {
		t.Data = hoje()
	}
	if err := t.Validate(); err != nil {
		slog.InfoContext(r.Context(), "Tarefa rejected", "error", err, "usuario_id", u.ID)
		s.setFlash(w, "Dados da tarefa inválidos: informe um título e uma data no formato AAAA-MM-DD.")
		http.Redirect(w, r, "/add-tarefa", http.StatusSeeOther)
		return
	}

	if _, err := s.repo.CreateTarefa(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Failed creating tarefa", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.setFlash(w, "Tarefa adicionada.")
	http.Redirect(w, r, "/vida-pessoal", http.StatusSeeOther)
}

func (s *Server) handleConcluirTarefa(w http.ResponseWriter, r *http.Request) {
	s.setTarefaStatus(w, r, core.StatusConcluida)
}

func (s *Server) handleDesfazerTarefa(w http.ResponseWriter, r *http.Request) {
	s.setTarefaStatus(w, r, core.StatusPendente)
}

// setTarefaStatus flips a task's flag. The owner filter in the storage
// layer turns requests against someone else's task into no-ops.
func (s *Server) setTarefaStatus(w http.ResponseWriter, r *http.Request, status core.StatusTarefa) {
	u := currentUser(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := s.repo.SetStatusTarefa(r.Context(), id, u.ID, status); err != nil {
		slog.ErrorContext(r.Context(), "Failed updating tarefa status", "error", err, "id", id, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/vida-pessoal", http.StatusSeeOther)
}

func (s *Server) handleExcluirTarefa(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := s.repo.DeleteTarefa(r.Context(), id, u.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting tarefa", "error", err, "id", id, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/vida-pessoal", http.StatusSeeOther)
}

// tarefaEvento is one calendar event of the /api/tarefas feed.
type tarefaEvento struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	AllDay bool   `json:"allDay"`
	Color  string `json:"color"`
}

// handleTarefasFeed serves the owner's pending tasks as calendar events.
func (s *Server) handleTarefasFeed(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	tarefas, err := s.repo.ListTarefasPendentes(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing tarefas pendentes", "error", err, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	eventos := make([]tarefaEvento, 0, len(tarefas))
	for _, t := range tarefas {
		eventos = append(eventos, tarefaEvento{
			Title:  t.Titulo,
			Start:  t.Data,
			AllDay: true,
			Color:  corTarefaFeed,
		})
	}
	writeJSON(w, http.StatusOK, eventos)
}

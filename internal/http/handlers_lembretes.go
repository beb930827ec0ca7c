package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// lembreteJSON is the wire shape of the reminders API.
type lembreteJSON struct {
	ID        int64  `json:"id"`
	Tipo      string `json:"tipo"`
	Descricao string `json:"descricao"`
	Data      string `json:"data"`
}

func (s *Server) handleListLembretes(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	lembretes, err := s.repo.ListLembretes(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing lembretes", "error", err, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	out := make([]lembreteJSON, 0, len(lembretes))
	for _, l := range lembretes {
		out = append(out, lembreteJSON{ID: l.ID, Tipo: l.Tipo, Descricao: l.Descricao, Data: l.Data})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCriarLembrete(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	var in lembreteJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	l := core.Lembrete{
		UsuarioID: u.ID,
		Tipo:      sanitizeInput(in.Tipo),
		Descricao: sanitizeInput(in.Descricao),
		Data:      sanitizeInput(in.Data),
	}
	if err := l.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	id, err := s.repo.CreateLembrete(r.Context(), l)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating lembrete", "error", err, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, lembreteJSON{ID: id, Tipo: l.Tipo, Descricao: l.Descricao, Data: l.Data})
}

func (s *Server) handleExcluirLembrete(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := s.repo.DeleteLembrete(r.Context(), id, u.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting lembrete", "error", err, "id", id, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

type financasPage struct {
	User       *core.Usuario
	Financas   []core.Financa
	Categorias []core.Categoria
	Flash      string
	Error      string
}

func (s *Server) handleFinancasPage(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	financas, err := s.repo.ListFinancas(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing financas", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "financas.html", financasPage{
		User:       u,
		Financas:   financas,
		Categorias: core.Categorias,
		Flash:      s.popFlash(w, r),
	})
}

// handleCriarFinanca validates the whole entry before touching storage;
// a bad amount or installment count writes nothing.
func (s *Server) handleCriarFinanca(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	reject := func(msg string) {
		slog.InfoContext(r.Context(), "Financa rejected", "reason", msg, "usuario_id", u.ID)
		s.setFlash(w, msg)
		http.Redirect(w, r, "/financas", http.StatusSeeOther)
	}

	centavos, err := core.ParseDecimalToCentavos(r.Form.Get("valor"))
	if err != nil {
		reject("Valor inválido: informe um número positivo, por exemplo 12,50.")
		return
	}
	parcelas, err := core.ParseParcelas(r.Form.Get("parcelas"))
	if err != nil {
		reject("Número de parcelas inválido.")
		return
	}

	f := core.Financa{
		UsuarioID:      u.ID,
		Descricao:      sanitizeInput(r.Form.Get("descricao")),
		Categoria:      sanitizeInput(r.Form.Get("categoria")),
		Tipo:           core.TipoLancamento(sanitizeInput(r.Form.Get("tipo"))),
		Valor:          core.Money{Centavos: centavos},
		FormaPagamento: sanitizeInput(r.Form.Get("forma_pagamento")),
		Parcelas:       parcelas,
		Data:           sanitizeInput(r.Form.Get("data")),
	}
	if f.Data == "" {
		f.Data = hoje()
	}
	if err := f.Validate(); err != nil {
		reject("Dados do lançamento inválidos.")
		return
	}

	id, err := s.repo.CreateFinanca(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating financa", "error", err, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Export is best effort; the entry is already persisted.
	if err := s.notifier.PublishExportFinanca(r.Context(), id, f); err != nil {
		slog.ErrorContext(r.Context(), "Failed publishing export-financa", "error", err, "id", id)
	}

	s.setFlash(w, "Lançamento registrado.")
	http.Redirect(w, r, "/financas", http.StatusSeeOther)
}

// financasData is the wire shape of GET /financas/data.
type financasData struct {
	Totais struct {
		Entrada float64 `json:"entrada"`
		Saida   float64 `json:"saida"`
	} `json:"totais"`
	PorCategoria struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
		Colors []string  `json:"colors"`
	} `json:"por_categoria"`
}

// handleFinancasData aggregates the owner's ledger for the chart widgets.
func (s *Server) handleFinancasData(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	porTipo, err := s.repo.SomasPorTipo(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed summing por tipo", "error", err, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	porCategoria, err := s.repo.SomasPorCategoria(r.Context(), u.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed summing por categoria", "error", err, "usuario_id", u.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	resumo := core.BuildResumo(porTipo, porCategoria)

	var out financasData
	out.Totais.Entrada = resumo.Totais.Entrada.Reais()
	out.Totais.Saida = resumo.Totais.Saida.Reais()
	out.PorCategoria.Labels = append([]string{}, resumo.PorCategoria.Labels...)
	out.PorCategoria.Values = append([]float64{}, resumo.PorCategoria.Values...)
	out.PorCategoria.Colors = append([]string{}, resumo.PorCategoria.Colors...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApagarFinanca(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := s.repo.DeleteFinanca(r.Context(), id, u.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting financa", "error", err, "id", id, "usuario_id", u.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/financas", http.StatusSeeOther)
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// CreateFinanca inserts a ledger entry. The amount is stored as a
// positive magnitude; sign is derived from tipo at aggregation time.
func (r *SQLiteRepository) CreateFinanca(ctx context.Context, f core.Financa) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO financas (usuario_id, descricao, categoria, tipo, valor_centavos, forma_pagamento, parcelas, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.UsuarioID, f.Descricao, f.Categoria, f.Tipo, f.Valor.Centavos, f.FormaPagamento, f.Parcelas, f.Data)
	if err != nil {
		return 0, fmt.Errorf("create financa: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("financa last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Financa created",
		"id", id,
		"usuario_id", f.UsuarioID,
		"tipo", f.Tipo,
		"categoria", f.Categoria,
		"valor_centavos", f.Valor.Centavos)
	return id, nil
}

// GetFinanca retrieves one entry, owner-scoped.
func (r *SQLiteRepository) GetFinanca(ctx context.Context, id, usuarioID int64) (*core.Financa, error) {
	var f core.Financa
	err := r.db.QueryRowContext(ctx,
		`SELECT id, usuario_id, descricao, categoria, tipo, valor_centavos, forma_pagamento, parcelas, data
		 FROM financas WHERE id = ? AND usuario_id = ?`, id, usuarioID).
		Scan(&f.ID, &f.UsuarioID, &f.Descricao, &f.Categoria, &f.Tipo, &f.Valor.Centavos, &f.FormaPagamento, &f.Parcelas, &f.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("get financa: %w", err)
	}
	return &f, nil
}

// ListFinancas returns every ledger entry for the owner, newest date first.
func (r *SQLiteRepository) ListFinancas(ctx context.Context, usuarioID int64) ([]core.Financa, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, descricao, categoria, tipo, valor_centavos, forma_pagamento, parcelas, data
		 FROM financas WHERE usuario_id = ? ORDER BY data DESC`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("list financas: %w", err)
	}
	defer rows.Close()

	var out []core.Financa
	for rows.Next() {
		var f core.Financa
		if err := rows.Scan(&f.ID, &f.UsuarioID, &f.Descricao, &f.Categoria, &f.Tipo, &f.Valor.Centavos, &f.FormaPagamento, &f.Parcelas, &f.Data); err != nil {
			return nil, fmt.Errorf("scan financa: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFinanca removes an entry only when it belongs to the given owner.
func (r *SQLiteRepository) DeleteFinanca(ctx context.Context, id, usuarioID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM financas WHERE id = ? AND usuario_id = ?`, id, usuarioID)
	if err != nil {
		return fmt.Errorf("delete financa: %w", err)
	}
	slog.InfoContext(ctx, "Financa deleted", "id", id, "usuario_id", usuarioID)
	return nil
}

// SomasPorTipo sums the owner's amounts grouped by tipo.
func (r *SQLiteRepository) SomasPorTipo(ctx context.Context, usuarioID int64) ([]core.SomaTipo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tipo, COALESCE(SUM(valor_centavos), 0)
		 FROM financas WHERE usuario_id = ? GROUP BY tipo`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("somas por tipo: %w", err)
	}
	defer rows.Close()

	var out []core.SomaTipo
	for rows.Next() {
		var s core.SomaTipo
		if err := rows.Scan(&s.Tipo, &s.Centavos); err != nil {
			return nil, fmt.Errorf("scan soma por tipo: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SomasPorCategoria sums the owner's amounts grouped by (categoria, tipo).
func (r *SQLiteRepository) SomasPorCategoria(ctx context.Context, usuarioID int64) ([]core.SomaCategoria, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT categoria, tipo, COALESCE(SUM(valor_centavos), 0)
		 FROM financas WHERE usuario_id = ? GROUP BY categoria, tipo`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("somas por categoria: %w", err)
	}
	defer rows.Close()

	var out []core.SomaCategoria
	for rows.Next() {
		var s core.SomaCategoria
		if err := rows.Scan(&s.Categoria, &s.Tipo, &s.Centavos); err != nil {
			return nil, fmt.Errorf("scan soma por categoria: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

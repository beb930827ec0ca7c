package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// CreateLembrete inserts a reminder for its owner.
func (r *SQLiteRepository) CreateLembrete(ctx context.Context, l core.Lembrete) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO lembretes (usuario_id, tipo, descricao, data) VALUES (?, ?, ?, ?)`,
		l.UsuarioID, l.Tipo, l.Descricao, l.Data)
	if err != nil {
		return 0, fmt.Errorf("create lembrete: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("lembrete last insert id: %w", err)
	}
	slog.InfoContext(ctx, "Lembrete created", "id", id, "usuario_id", l.UsuarioID, "data", l.Data)
	return id, nil
}

// ListLembretes returns the owner's reminders ordered by date ascending.
func (r *SQLiteRepository) ListLembretes(ctx context.Context, usuarioID int64) ([]core.Lembrete, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, tipo, descricao, data
		 FROM lembretes WHERE usuario_id = ? ORDER BY data ASC`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("list lembretes: %w", err)
	}
	defer rows.Close()

	var out []core.Lembrete
	for rows.Next() {
		var l core.Lembrete
		if err := rows.Scan(&l.ID, &l.UsuarioID, &l.Tipo, &l.Descricao, &l.Data); err != nil {
			return nil, fmt.Errorf("scan lembrete: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteLembrete removes a reminder only when it belongs to the given owner.
func (r *SQLiteRepository) DeleteLembrete(ctx context.Context, id, usuarioID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM lembretes WHERE id = ? AND usuario_id = ?`, id, usuarioID)
	if err != nil {
		return fmt.Errorf("delete lembrete: %w", err)
	}
	return nil
}

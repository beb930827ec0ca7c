package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// CreateTarefa inserts a new pending task for its owner.
func (r *SQLiteRepository) CreateTarefa(ctx context.Context, t core.Tarefa) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tarefas (usuario_id, titulo, descricao, data, categoria, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UsuarioID, t.Titulo, t.Descricao, t.Data, t.Categoria, core.StatusPendente)
	if err != nil {
		return 0, fmt.Errorf("create tarefa: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tarefa last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Tarefa created", "id", id, "usuario_id", t.UsuarioID, "data", t.Data)
	return id, nil
}

// ListTarefas returns every task owned by the user, ordered by date ascending.
func (r *SQLiteRepository) ListTarefas(ctx context.Context, usuarioID int64) ([]core.Tarefa, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, titulo, descricao, data, categoria, status
		 FROM tarefas WHERE usuario_id = ? ORDER BY data ASC`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("list tarefas: %w", err)
	}
	defer rows.Close()
	return scanTarefas(rows)
}

// ListTarefasPendentes returns the owner's pending tasks for the calendar feed.
func (r *SQLiteRepository) ListTarefasPendentes(ctx context.Context, usuarioID int64) ([]core.Tarefa, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, titulo, descricao, data, categoria, status
		 FROM tarefas WHERE usuario_id = ? AND status = ? ORDER BY data ASC`,
		usuarioID, core.StatusPendente)
	if err != nil {
		return nil, fmt.Errorf("list tarefas pendentes: %w", err)
	}
	defer rows.Close()
	return scanTarefas(rows)
}

// CountTarefasDoDia counts the owner's pending tasks for a given calendar day.
func (r *SQLiteRepository) CountTarefasDoDia(ctx context.Context, usuarioID int64, data string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tarefas WHERE usuario_id = ? AND data = ? AND status = ?`,
		usuarioID, data, core.StatusPendente).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tarefas do dia: %w", err)
	}
	return n, nil
}

// SetStatusTarefa flips the completion flag. The usuario_id filter makes
// the update a silent no-op when the task belongs to someone else.
func (r *SQLiteRepository) SetStatusTarefa(ctx context.Context, id, usuarioID int64, status core.StatusTarefa) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tarefas SET status = ? WHERE id = ? AND usuario_id = ?`,
		status, id, usuarioID)
	if err != nil {
		return fmt.Errorf("set tarefa status: %w", err)
	}
	return nil
}

// DeleteTarefa removes a task only when it belongs to the given owner.
func (r *SQLiteRepository) DeleteTarefa(ctx context.Context, id, usuarioID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tarefas WHERE id = ? AND usuario_id = ?`, id, usuarioID)
	if err != nil {
		return fmt.Errorf("delete tarefa: %w", err)
	}
	slog.InfoContext(ctx, "Tarefa deleted", "id", id, "usuario_id", usuarioID)
	return nil
}

func scanTarefas(rows *sql.Rows) ([]core.Tarefa, error) {
	var out []core.Tarefa
	for rows.Next() {
		var t core.Tarefa
		if err := rows.Scan(&t.ID, &t.UsuarioID, &t.Titulo, &t.Descricao, &t.Data, &t.Categoria, &t.Status); err != nil {
			return nil, fmt.Errorf("scan tarefa: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

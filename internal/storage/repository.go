package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gustavotrrsenac/datefy/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNaoEncontrado is returned when an owner-scoped lookup matches no row.
	ErrNaoEncontrado = errors.New("record not found")
	// ErrEmailEmUso is returned when the usuarios.email unique constraint fires.
	ErrEmailEmUso = errors.New("email already registered")
)

// SQLiteRepository is the single persistence layer behind all handlers.
// Every per-user read and write is scoped by usuario_id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping checks database liveness for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ---- usuarios ----

// CreateUsuario persists a new account. The password must already be hashed.
func (r *SQLiteRepository) CreateUsuario(ctx context.Context, nome, email, senhaHash string) (*core.Usuario, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash) VALUES (?, ?, ?)`,
		nome, email, senhaHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailEmUso
		}
		return nil, fmt.Errorf("create usuario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("usuario last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Usuario created", "id", id, "email", email)
	return r.GetUsuarioByID(ctx, id)
}

func (r *SQLiteRepository) GetUsuarioByID(ctx context.Context, id int64) (*core.Usuario, error) {
	return r.scanUsuario(r.db.QueryRowContext(ctx,
		`SELECT id, nome, email, senha_hash, criado_em FROM usuarios WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetUsuarioByEmail(ctx context.Context, email string) (*core.Usuario, error) {
	return r.scanUsuario(r.db.QueryRowContext(ctx,
		`SELECT id, nome, email, senha_hash, criado_em FROM usuarios WHERE email = ?`, email))
}

func (r *SQLiteRepository) scanUsuario(row *sql.Row) (*core.Usuario, error) {
	var u core.Usuario
	if err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.CriadoEm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("scan usuario: %w", err)
	}
	return &u, nil
}

// UpdatePerfil updates the profile fields of an account.
func (r *SQLiteRepository) UpdatePerfil(ctx context.Context, id int64, nome, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET nome = ?, email = ? WHERE id = ?`, nome, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailEmUso
		}
		return fmt.Errorf("update perfil: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSenhaHash(ctx context.Context, id int64, senhaHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET senha_hash = ? WHERE id = ?`, senhaHash, id)
	if err != nil {
		return fmt.Errorf("update senha hash: %w", err)
	}
	slog.InfoContext(ctx, "Senha updated", "usuario_id", id)
	return nil
}

// ---- sessoes ----

// CreateSessao stores a server-side session token with its expiry.
func (r *SQLiteRepository) CreateSessao(ctx context.Context, token string, usuarioID int64, expiraEm time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessoes (token, usuario_id, expira_em) VALUES (?, ?, ?)`,
		token, usuarioID, expiraEm.Unix())
	if err != nil {
		return fmt.Errorf("create sessao: %w", err)
	}
	return nil
}

// GetSessao resolves a still-valid session token to its user.
func (r *SQLiteRepository) GetSessao(ctx context.Context, token string) (*core.Usuario, error) {
	return r.scanUsuario(r.db.QueryRowContext(ctx, `
		SELECT u.id, u.nome, u.email, u.senha_hash, u.criado_em
		FROM sessoes s
		JOIN usuarios u ON s.usuario_id = u.id
		WHERE s.token = ? AND s.expira_em > ?`,
		token, time.Now().Unix()))
}

func (r *SQLiteRepository) DeleteSessao(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessoes WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete sessao: %w", err)
	}
	return nil
}

// DeleteSessoesExpiradas removes stale sessions and returns how many were swept.
func (r *SQLiteRepository) DeleteSessoesExpiradas(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessoes WHERE expira_em <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessoes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessoes rows affected: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TipoEntrada TipoLancamento = "entrada"
	TipoSaida   TipoLancamento = "saida"
)

const (
	StatusPendente  StatusTarefa = 0
	StatusConcluida StatusTarefa = 1
)

type (
	// TipoLancamento distinguishes income (entrada) from expense (saida).
	TipoLancamento string

	// StatusTarefa is the binary completion flag of a task.
	StatusTarefa int

	Money struct {
		Centavos int64
	}

	Usuario struct {
		ID        int64
		Nome      string
		Email     string
		SenhaHash string
		CriadoEm  time.Time
	}

	Tarefa struct {
		ID        int64
		UsuarioID int64
		Titulo    string
		Descricao string
		Data      string // YYYY-MM-DD
		Categoria string
		Status    StatusTarefa
	}

	Financa struct {
		ID             int64
		UsuarioID      int64
		Descricao      string
		Categoria      string
		Tipo           TipoLancamento
		Valor          Money
		FormaPagamento string
		Parcelas       int
		Data           string // YYYY-MM-DD
	}

	Lembrete struct {
		ID        int64
		UsuarioID int64
		Tipo      string
		Descricao string
		Data      string // YYYY-MM-DD
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidParcelas = errors.New("invalid installment count")
	ErrInvalidTipo     = errors.New("invalid entry type")
	ErrEmptyTitulo     = errors.New("empty task title")
	ErrInvalidData     = errors.New("invalid date")
	ErrEmptyNome       = errors.New("empty name")
	ErrEmptyEmail      = errors.New("empty email")
)

// ValidateData checks a calendar-day string in YYYY-MM-DD format.
func ValidateData(data string) error {
	if _, err := time.Parse("2006-01-02", data); err != nil {
		return ErrInvalidData
	}
	return nil
}

func (m Money) Validate() error {
	if m.Centavos <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Reais returns the amount as a float64 for display and JSON feeds.
// Use centavos for arithmetic to avoid floating-point drift.
func (m Money) Reais() float64 {
	return float64(m.Centavos) / 100.0
}

func (t Tarefa) Validate() error {
	if len(strings.TrimSpace(t.Titulo)) == 0 {
		return ErrEmptyTitulo
	}
	if len(t.Titulo) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	return ValidateData(t.Data)
}

func (f Financa) Validate() error {
	switch f.Tipo {
	case TipoEntrada, TipoSaida:
	default:
		return ErrInvalidTipo
	}
	if err := f.Valor.Validate(); err != nil {
		return err
	}
	if f.Parcelas < 1 {
		return ErrInvalidParcelas
	}
	if len(f.Descricao) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (u Usuario) Validate() error {
	if len(strings.TrimSpace(u.Nome)) == 0 {
		return ErrEmptyNome
	}
	if len(strings.TrimSpace(u.Email)) == 0 {
		return ErrEmptyEmail
	}
	return nil
}

func (l Lembrete) Validate() error {
	if len(strings.TrimSpace(l.Descricao)) == 0 {
		return errors.New("empty reminder description")
	}
	return ValidateData(l.Data)
}

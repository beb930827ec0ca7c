package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// Message kinds carried on the notification queue.
const (
	KindResetSenha    = "reset_senha"
	KindExportFinanca = "export_financa"
)

// Envelope wraps every queued message with its kind so a single queue
// can carry both notification types.
type Envelope struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ResetSenhaMessage asks the notifier worker to deliver a (simulated)
// password-recovery email. Only the address is carried; no tokens.
type ResetSenhaMessage struct {
	Email string `json:"email"`
}

// ExportFinancaMessage carries a full ledger row so the export worker
// can append it to the configured spreadsheet without a database read.
type ExportFinancaMessage struct {
	ID             int64  `json:"id"`
	Descricao      string `json:"descricao"`
	Categoria      string `json:"categoria"`
	Tipo           string `json:"tipo"`
	ValorCentavos  int64  `json:"valor_centavos"`
	FormaPagamento string `json:"forma_pagamento"`
	Parcelas       int    `json:"parcelas"`
	Data           string `json:"data"`
}

// NewExportFinancaMessage builds an export message from a ledger entry.
func NewExportFinancaMessage(id int64, f core.Financa) *ExportFinancaMessage {
	return &ExportFinancaMessage{
		ID:             id,
		Descricao:      f.Descricao,
		Categoria:      f.Categoria,
		Tipo:           string(f.Tipo),
		ValorCentavos:  f.Valor.Centavos,
		FormaPagamento: f.FormaPagamento,
		Parcelas:       f.Parcelas,
		Data:           f.Data,
	}
}

// Financa reconstructs the ledger entry carried by the message.
func (m *ExportFinancaMessage) Financa() core.Financa {
	return core.Financa{
		ID:             m.ID,
		Descricao:      m.Descricao,
		Categoria:      m.Categoria,
		Tipo:           core.TipoLancamento(m.Tipo),
		Valor:          core.Money{Centavos: m.ValorCentavos},
		FormaPagamento: m.FormaPagamento,
		Parcelas:       m.Parcelas,
		Data:           m.Data,
	}
}

func seal(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{Kind: kind, Timestamp: time.Now(), Payload: raw})
}

// EnvelopeFromJSON decodes a queued message back into its envelope.
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}

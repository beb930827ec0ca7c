// Package sheets defines the outbound port for exporting ledger rows
// to a spreadsheet, with Google Sheets and in-memory adapters.
package sheets

import (
	"context"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// LedgerExporter appends one finance entry to an external sheet and
// returns an adapter-specific row reference.
type LedgerExporter interface {
	Append(ctx context.Context, f core.Financa) (rowRef string, err error)
}

package transactions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/ingest"
)

// ErrInvalidRequest reports a submission that fails boundary validation before
// it reaches the engine.
var ErrInvalidRequest = errors.New("invalid transaction request")

type submitRequest struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

// toTransaction applies the same validation as the CSV boundary: amounts are
// required and non-negative for deposits and withdrawals, ignored otherwise.
func (r submitRequest) toTransaction() (engine.Transaction, error) {
	var op engine.Op
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case "deposit":
		amount, err := ingest.ParseAmount(r.Amount)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		op = engine.Deposit{TransactionID: r.Tx, Amount: amount}
	case "withdrawal":
		amount, err := ingest.ParseAmount(r.Amount)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		op = engine.Withdrawal{Amount: amount}
	case "dispute":
		op = engine.Dispute{TransactionID: r.Tx}
	case "resolve":
		op = engine.Resolve{TransactionID: r.Tx}
	case "chargeback":
		op = engine.Chargeback{TransactionID: r.Tx}
	default:
		return engine.Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, r.Type)
	}

	return engine.Transaction{ClientID: r.Client, Op: op}, nil
}

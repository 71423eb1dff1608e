package engine

import (
	"fmt"

	"github.com/clearstream/clearstream/internal/money"
)

// Op is the closed set of operations a transaction can carry. The marker
// method keeps the set sealed to this package so dispatch stays exhaustive.
type Op interface {
	isOp()
}

// Deposit credits a client account and opens a disputable record.
type Deposit struct {
	TransactionID uint32
	Amount        money.Decimal
}

// Withdrawal debits available funds.
type Withdrawal struct {
	Amount money.Decimal
}

// Dispute freezes the referenced deposit's amount.
type Dispute struct {
	TransactionID uint32
}

// Resolve releases the referenced deposit's held funds.
type Resolve struct {
	TransactionID uint32
}

// Chargeback finalizes the referenced dispute and locks the account.
type Chargeback struct {
	TransactionID uint32
}

func (Deposit) isOp()    {}
func (Withdrawal) isOp() {}
func (Dispute) isOp()    {}
func (Resolve) isOp()    {}
func (Chargeback) isOp() {}

// Transaction addresses one operation to one client account.
type Transaction struct {
	ClientID uint16
	Op       Op
}

// OutputItem is a read-only snapshot of one account's committed state.
type OutputItem struct {
	Client    uint16        `json:"client"`
	Available money.Decimal `json:"available"`
	Held      money.Decimal `json:"held"`
	Total     money.Decimal `json:"total"`
	Locked    bool          `json:"locked"`
}

// Engine routes transactions to per-client accounts for the lifetime of one
// processing run. It is not safe for concurrent use; callers serialize access
// (see the processing package).
type Engine struct {
	accounts map[uint16]*Account
}

// New returns an engine with no accounts.
func New() *Engine {
	return &Engine{accounts: make(map[uint16]*Account)}
}

// ProcessTransaction dispatches one transaction to its account, creating the
// account on first reference. Locked accounts reject everything up front.
// Errors are per-transaction: a rejected transaction never disturbs any other
// account or any previously committed state.
func (e *Engine) ProcessTransaction(tx Transaction) error {
	account, ok := e.accounts[tx.ClientID]
	if !ok {
		account = NewAccount()
		e.accounts[tx.ClientID] = account
	}

	if account.Locked() {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, tx.ClientID)
	}

	var err error
	switch op := tx.Op.(type) {
	case Deposit:
		err = account.Deposit(op.TransactionID, op.Amount)
	case Withdrawal:
		err = account.Withdraw(op.Amount)
	case Dispute:
		err = account.StartDispute(op.TransactionID)
	case Resolve:
		err = account.ResolveDispute(op.TransactionID)
	case Chargeback:
		err = account.Chargeback(op.TransactionID)
	default:
		return fmt.Errorf("unknown operation %T", tx.Op)
	}
	if err != nil {
		return err
	}

	// A lock set during this transaction makes the dispute ledger unreachable.
	if account.Locked() {
		account.ClearDepositRecords()
	}
	return nil
}

// OutputItems snapshots every known account. Iteration order is unspecified.
func (e *Engine) OutputItems() []OutputItem {
	items := make([]OutputItem, 0, len(e.accounts))
	for clientID, account := range e.accounts {
		balance := account.Balance()
		items = append(items, OutputItem{
			Client:    clientID,
			Available: balance.Available,
			Held:      balance.Held,
			Total:     balance.ComputedTotal,
			Locked:    account.Locked(),
		})
	}
	return items
}

// OutputItemFor snapshots a single account if it exists.
func (e *Engine) OutputItemFor(clientID uint16) (OutputItem, bool) {
	account, ok := e.accounts[clientID]
	if !ok {
		return OutputItem{}, false
	}
	balance := account.Balance()
	return OutputItem{
		Client:    clientID,
		Available: balance.Available,
		Held:      balance.Held,
		Total:     balance.ComputedTotal,
		Locked:    account.Locked(),
	}, true
}

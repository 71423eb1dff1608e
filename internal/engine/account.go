package engine

import (
	"fmt"

	"github.com/clearstream/clearstream/internal/money"
)

// disputeStatus tracks where a deposit sits in the dispute lifecycle. The set
// is closed: every consumer switches exhaustively so a new status cannot slip
// through a case unhandled.
type disputeStatus int

const (
	disputeNotStarted disputeStatus = iota
	disputeInProgress
	disputeChargebacked
)

type depositRecord struct {
	amount money.Decimal
	status disputeStatus
}

// Balance holds an account's funds split between available and held, plus the
// running total. ComputedTotal equals Available+Held after every successful
// mutation and is restored verbatim after every failed one.
type Balance struct {
	Available     money.Decimal
	Held          money.Decimal
	ComputedTotal money.Decimal
}

// mutate applies fn under the atomic mutation protocol: the three balance
// fields are snapshotted up front, the total is recomputed afterwards, and any
// failure along the way restores the snapshot before the error propagates. No
// caller ever observes a partially applied change.
func (b *Balance) mutate(fn func(*Balance) error) error {
	snapshot := *b
	if err := fn(b); err != nil {
		*b = snapshot
		return err
	}
	if b.Available != snapshot.Available || b.Held != snapshot.Held {
		total, err := b.Available.CheckedAdd(b.Held)
		if err != nil {
			*b = snapshot
			return fmt.Errorf("%w: %w", ErrInvalidTotalAmount, err)
		}
		b.ComputedTotal = total
	}
	return nil
}

// Account is the per-client state machine: balances, the per-deposit dispute
// ledger, and the terminal lock flag.
type Account struct {
	balance  Balance
	locked   bool
	deposits map[uint32]*depositRecord
}

// NewAccount returns an empty, unlocked account.
func NewAccount() *Account {
	return &Account{deposits: make(map[uint32]*depositRecord)}
}

// Locked reports whether the account has been frozen. The flag only ever moves
// false to true.
func (a *Account) Locked() bool { return a.locked }

// Balance returns the current committed balance.
func (a *Account) Balance() Balance { return a.balance }

// Deposit records a new deposit and credits available funds. The record insert
// and the balance update apply atomically as a pair: if crediting fails the
// just-inserted record is removed again.
func (a *Account) Deposit(txID uint32, amount money.Decimal) error {
	if _, exists := a.deposits[txID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateTransactionID, txID)
	}
	a.deposits[txID] = &depositRecord{amount: amount, status: disputeNotStarted}

	err := a.balance.mutate(func(b *Balance) error {
		available, err := b.Available.CheckedAdd(amount)
		if err != nil {
			return err
		}
		b.Available = available
		return nil
	})
	if err != nil {
		delete(a.deposits, txID)
		return err
	}
	return nil
}

// Withdraw debits available funds, rejecting overdrafts.
func (a *Account) Withdraw(amount money.Decimal) error {
	if a.balance.Available.Less(amount) {
		return ErrInsufficientFunds
	}
	return a.balance.mutate(func(b *Balance) error {
		available, err := b.Available.CheckedSub(amount)
		if err != nil {
			return err
		}
		b.Available = available
		return nil
	})
}

// StartDispute freezes a prior deposit's amount, moving it from available to
// held.
func (a *Account) StartDispute(txID uint32) error {
	record, ok := a.deposits[txID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrTransactionNotFound, txID)
	}

	switch record.status {
	case disputeInProgress:
		return fmt.Errorf("%w: %d", ErrDisputeAlreadyStarted, txID)
	case disputeChargebacked:
		// Unlikely: the account locks on chargeback, blocking further disputes.
		return fmt.Errorf("%w: %d", ErrDisputeNotAllowed, txID)
	case disputeNotStarted:
	}

	if a.balance.Available.Less(record.amount) {
		return ErrInsufficientFunds
	}

	err := a.balance.mutate(func(b *Balance) error {
		available, err := b.Available.CheckedSub(record.amount)
		if err != nil {
			return err
		}
		held, err := b.Held.CheckedAdd(record.amount)
		if err != nil {
			return err
		}
		b.Available = available
		b.Held = held
		return nil
	})
	if err != nil {
		return err
	}

	record.status = disputeInProgress
	return nil
}

// ResolveDispute releases a disputed deposit's held funds back to available.
func (a *Account) ResolveDispute(txID uint32) error {
	record, ok := a.deposits[txID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrTransactionNotFound, txID)
	}
	if record.status != disputeInProgress {
		return fmt.Errorf("%w: %d", ErrDisputeNotStarted, txID)
	}

	// Held can only have grown by this record's amount when the dispute opened,
	// so the check cannot fire while the state machine is intact. It stays as
	// an integrity guard against future bugs.
	if a.balance.Held.Less(record.amount) {
		return ErrInsufficientHoldsToResolveDispute
	}

	err := a.balance.mutate(func(b *Balance) error {
		held, err := b.Held.CheckedSub(record.amount)
		if err != nil {
			return err
		}
		available, err := b.Available.CheckedAdd(record.amount)
		if err != nil {
			return err
		}
		b.Held = held
		b.Available = available
		return nil
	})
	if err != nil {
		return err
	}

	record.status = disputeNotStarted
	return nil
}

// Chargeback finalizes an open dispute against the client: held funds are
// removed and the account locks. A chargeback that references an unknown
// deposit, or a deposit with no open dispute, signals upstream referential
// inconsistency; the account is quarantined — locked with balances untouched —
// and the call still reports success.
func (a *Account) Chargeback(txID uint32) error {
	record, ok := a.deposits[txID]
	if !ok {
		a.locked = true
		return nil
	}

	switch record.status {
	case disputeNotStarted:
		a.locked = true
		return nil
	case disputeChargebacked:
		return fmt.Errorf("%w: %d", ErrDisputeAlreadyChargedback, txID)
	case disputeInProgress:
	}

	err := a.balance.mutate(func(b *Balance) error {
		held, err := b.Held.CheckedSub(record.amount)
		if err != nil {
			return err
		}
		b.Held = held
		return nil
	})
	if err != nil {
		return err
	}

	a.locked = true
	record.status = disputeChargebacked
	return nil
}

// ClearDepositRecords drops the dispute ledger. Locked accounts reject every
// further transaction, so the per-deposit history is dead weight once the lock
// is set; the engine calls this right after an account locks.
func (a *Account) ClearDepositRecords() {
	a.deposits = make(map[uint32]*depositRecord)
}

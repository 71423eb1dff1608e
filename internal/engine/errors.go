package engine

import "errors"

var (
	// ErrDuplicateTransactionID occurs when a deposit reuses a transaction id
	// already recorded for the same account.
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")

	// ErrTransactionNotFound occurs when a dispute-family operation references
	// a deposit the account has no record of.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInsufficientFunds occurs when available funds cannot cover a
	// withdrawal or back a new dispute.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDisputeAlreadyStarted occurs when a dispute is opened twice without an
	// intervening resolve.
	ErrDisputeAlreadyStarted = errors.New("dispute already started")

	// ErrDisputeNotStarted occurs when a resolve targets a deposit with no open
	// dispute.
	ErrDisputeNotStarted = errors.New("dispute not started")

	// ErrDisputeNotAllowed occurs when a dispute targets a deposit that was
	// already charged back. Charged-back deposits never reopen.
	ErrDisputeNotAllowed = errors.New("dispute not allowed")

	// ErrDisputeAlreadyChargedback guards against chargeback replays on the
	// same deposit.
	ErrDisputeAlreadyChargedback = errors.New("dispute already charged back")

	// ErrInsufficientHoldsToResolveDispute is an integrity check on resolve.
	// Unreachable while the state machine holds its invariants; surfaced as a
	// recoverable error rather than a panic.
	ErrInsufficientHoldsToResolveDispute = errors.New("insufficient holds to resolve dispute")

	// ErrInvalidTotalAmount wraps the arithmetic failure that prevented the
	// account total from being recomputed after a mutation.
	ErrInvalidTotalAmount = errors.New("invalid total amount")

	// ErrAccountLocked rejects any transaction addressed to a locked account.
	ErrAccountLocked = errors.New("account is locked")
)

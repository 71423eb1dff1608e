package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/money"
)

var (
	// ErrAmountRequired reports a deposit or withdrawal row without an amount.
	ErrAmountRequired = errors.New("amount is required")

	// ErrNegativeAmount reports a deposit or withdrawal with a negative amount.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrUnknownTransactionType reports a row whose type column is not one of
	// the five supported operations.
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrMalformedRecord reports a row with too few columns.
	ErrMalformedRecord = errors.New("malformed record")
)

// Reader streams transactions out of a CSV document with the header
// `type, client, tx, amount`. Fields are whitespace-trimmed; dispute, resolve
// and chargeback rows may omit the amount column entirely.
type Reader struct {
	csv        *csv.Reader
	line       int
	skipHeader bool
}

// NewReader wraps r in a streaming transaction reader.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr, skipHeader: true}
}

// Read returns the next transaction, or io.EOF once the input is exhausted.
// Validation failures carry the 1-based input line number.
func (r *Reader) Read() (engine.Transaction, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return engine.Transaction{}, io.EOF
		}
		if err != nil {
			r.line++
			return engine.Transaction{}, fmt.Errorf("line %d: read csv record: %w", r.line, err)
		}
		r.line++

		if r.skipHeader {
			r.skipHeader = false
			continue
		}

		tx, err := r.parseRecord(record)
		if err != nil {
			return engine.Transaction{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return tx, nil
	}
}

func (r *Reader) parseRecord(record []string) (engine.Transaction, error) {
	if len(record) < 3 {
		return engine.Transaction{}, fmt.Errorf("%w: want at least 3 fields, got %d", ErrMalformedRecord, len(record))
	}

	kind := strings.ToLower(strings.TrimSpace(record[0]))

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("parse client id %q: %w", record[1], err)
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return engine.Transaction{}, fmt.Errorf("parse transaction id %q: %w", record[2], err)
	}

	rawAmount := ""
	if len(record) > 3 {
		rawAmount = strings.TrimSpace(record[3])
	}

	var op engine.Op
	switch kind {
	case "deposit":
		amount, err := parseAmount(rawAmount)
		if err != nil {
			return engine.Transaction{}, err
		}
		op = engine.Deposit{TransactionID: uint32(txID), Amount: amount}
	case "withdrawal":
		amount, err := parseAmount(rawAmount)
		if err != nil {
			return engine.Transaction{}, err
		}
		op = engine.Withdrawal{Amount: amount}
	case "dispute":
		op = engine.Dispute{TransactionID: uint32(txID)}
	case "resolve":
		op = engine.Resolve{TransactionID: uint32(txID)}
	case "chargeback":
		op = engine.Chargeback{TransactionID: uint32(txID)}
	default:
		return engine.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownTransactionType, record[0])
	}

	return engine.Transaction{ClientID: uint16(client), Op: op}, nil
}

// ParseAmount validates an amount string for a deposit or withdrawal: it must
// be present, syntactically valid and non-negative. This is the shared input
// boundary used by both the CSV reader and the HTTP transaction handler.
func ParseAmount(raw string) (money.Decimal, error) {
	return parseAmount(raw)
}

func parseAmount(raw string) (money.Decimal, error) {
	if raw == "" {
		return money.Decimal{}, ErrAmountRequired
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return money.Decimal{}, err
	}
	if amount.IsNegative() {
		return money.Decimal{}, ErrNegativeAmount
	}
	return amount, nil
}

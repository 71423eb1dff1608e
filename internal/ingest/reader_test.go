package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/money"
)

func readAll(t *testing.T, input string) []engine.Transaction {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var txns []engine.Transaction
	for {
		tx, err := r.Read()
		if err == io.EOF {
			return txns
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		txns = append(txns, tx)
	}
}

func TestReadTrimsAndParses(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"withdrawal, 1, 4, 1.5\n" +
		"dispute, 1, 1,\n" +
		"resolve, 1, 1,\n" +
		"chargeback, 1, 1,\n"

	txns := readAll(t, input)
	if len(txns) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(txns))
	}

	dep, ok := txns[0].Op.(engine.Deposit)
	if !ok || txns[0].ClientID != 1 || dep.TransactionID != 1 || dep.Amount != money.MustParse("1.0") {
		t.Fatalf("unexpected deposit: %+v", txns[0])
	}
	wd, ok := txns[1].Op.(engine.Withdrawal)
	if !ok || wd.Amount != money.MustParse("1.5") {
		t.Fatalf("unexpected withdrawal: %+v", txns[1])
	}
	if _, ok := txns[2].Op.(engine.Dispute); !ok {
		t.Fatalf("unexpected dispute: %+v", txns[2])
	}
	if _, ok := txns[3].Op.(engine.Resolve); !ok {
		t.Fatalf("unexpected resolve: %+v", txns[3])
	}
	if _, ok := txns[4].Op.(engine.Chargeback); !ok {
		t.Fatalf("unexpected chargeback: %+v", txns[4])
	}
}

func TestReadAllowsMissingAmountColumn(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 5, 9, 3.25\n" +
		"dispute, 5, 9\n"

	txns := readAll(t, input)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	d, ok := txns[1].Op.(engine.Dispute)
	if !ok || d.TransactionID != 9 {
		t.Fatalf("unexpected dispute: %+v", txns[1])
	}
}

func TestReadRejectsMissingAmount(t *testing.T) {
	r := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 1, 1,\n"))
	_, err := r.Read()
	if !errors.Is(err, ErrAmountRequired) {
		t.Fatalf("expected ErrAmountRequired, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestReadRejectsNegativeAmount(t *testing.T) {
	r := NewReader(strings.NewReader("type, client, tx, amount\nwithdrawal, 1, 1, -2.0\n"))
	if _, err := r.Read(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestReadRejectsMalformedAmount(t *testing.T) {
	r := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 1, 1, abc\n"))
	if _, err := r.Read(); !errors.Is(err, money.ErrInvalidSyntax) {
		t.Fatalf("expected money.ErrInvalidSyntax, got %v", err)
	}
}

func TestReadRejectsUnknownType(t *testing.T) {
	r := NewReader(strings.NewReader("type, client, tx, amount\ntransfer, 1, 1, 2.0\n"))
	if _, err := r.Read(); !errors.Is(err, ErrUnknownTransactionType) {
		t.Fatalf("expected ErrUnknownTransactionType, got %v", err)
	}
}

func TestReadRejectsOutOfRangeIDs(t *testing.T) {
	r := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 70000, 1, 2.0\n"))
	if _, err := r.Read(); err == nil {
		t.Fatal("expected client id out of range to fail")
	}
}

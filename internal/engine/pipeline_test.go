package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/ingest"
	"github.com/clearstream/clearstream/internal/report"
)

// Runs the full batch pipeline: CSV in, engine processing with per-transaction
// rejection, CSV report out.
func TestPipelineExampleDocument(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"deposit, 2, 2, 2.0\n" +
		"deposit, 1, 3, 2.0\n" +
		"withdrawal, 1, 4, 1.5\n" +
		"withdrawal, 2, 5, 3.0\n"

	eng := engine.New()
	reader := ingest.NewReader(strings.NewReader(input))
	for {
		tx, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := eng.ProcessTransaction(tx); err != nil && !errors.Is(err, engine.ErrInsufficientFunds) {
			t.Fatalf("process: %v", err)
		}
	}

	items := eng.OutputItems()
	sort.Slice(items, func(i, j int) bool { return items[i].Client < items[j].Client })

	var buf bytes.Buffer
	if err := report.NewCSVWriter(&buf).WriteSnapshots(context.Background(), items); err != nil {
		t.Fatalf("report: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	if buf.String() != want {
		t.Fatalf("report mismatch:\n got: %q\nwant: %q", buf.String(), want)
	}
}

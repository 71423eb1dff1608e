package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clearstream/clearstream/internal/engine"
)

// Writer renders the end-of-run account snapshots into some output format.
// The engine defines no format of its own; implementations own the rendering.
type Writer interface {
	WriteSnapshots(ctx context.Context, items []engine.OutputItem) error
}

// CSVWriter renders snapshots as CSV with the header
// client,available,held,total,locked and four fractional digits per amount.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter builds a writer rendering to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteSnapshots renders all items and flushes.
func (c *CSVWriter) WriteSnapshots(_ context.Context, items []engine.OutputItem) error {
	cw := csv.NewWriter(c.w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		row := []string{
			strconv.FormatUint(uint64(item.Client), 10),
			item.Available.String(),
			item.Held.String(),
			item.Total.String(),
			strconv.FormatBool(item.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record for client %d: %w", item.Client, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

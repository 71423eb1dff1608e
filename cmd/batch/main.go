package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/clearstream/clearstream/internal/config"
	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/infra"
	"github.com/clearstream/clearstream/internal/ingest"
	"github.com/clearstream/clearstream/internal/logging"
	"github.com/clearstream/clearstream/internal/report"
)

func main() {
	verbose := flag.Bool("verbose", false, "log every rejected transaction")
	output := flag.String("output", "csv", "report sink: csv (stdout) or postgres (DATABASE_URL)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-verbose] [-output csv|postgres] <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *output, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(path, output string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.New(level)

	ctx := context.Background()

	writer, cleanup, err := buildWriter(ctx, cfg, output)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	eng := engine.New()
	reader := ingest.NewReader(bufio.NewReader(f))
	for {
		tx, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed input is fatal; per-transaction engine rejections are not.
			return err
		}
		if err := eng.ProcessTransaction(tx); err != nil {
			if verbose {
				logger.Debug("transaction rejected", "client", tx.ClientID, "error", err)
			}
		}
	}

	if err := writer.WriteSnapshots(ctx, eng.OutputItems()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func buildWriter(ctx context.Context, cfg config.Config, output string) (report.Writer, func(), error) {
	switch output {
	case "csv":
		return report.NewCSVWriter(os.Stdout), func() {}, nil
	case "postgres":
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return report.NewPostgresWriter(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown output %q", output)
	}
}

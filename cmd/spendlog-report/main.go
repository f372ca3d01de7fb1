package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"

	"spendlog/internal/cli"
	"spendlog/internal/core"
	"spendlog/internal/report"
	"spendlog/internal/services"
)

type Params struct {
	Filter string `descr:"Time window to report" default:"all" alts:"all,week,month" strict:"true"`
	Format string `descr:"Output format" default:"table" alts:"table,json,xlsx,png" strict:"true"`
	Out    string `descr:"Write to this file instead of stdout" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("spendlog-report").
		WithShort("Print expense totals").
		WithLong("Loads every stored expense, applies the week/month/all window relative to today and writes the expenses with per-category totals as a table, JSON, an XLSX workbook or a PNG bar chart.").
		WithRunFunc(func(params *Params) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params) error {
	cli.LoadEnvFile()
	// Logs go to stderr so stdout carries only the report.
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stderr)

	format, err := report.ParseFormat(params.Format)
	if err != nil {
		return err
	}
	if format.Binary() && params.Out == "" {
		return fmt.Errorf("--format %s needs --out", format)
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	// Reports only read; never publish events.
	cfg.AMQPURL = ""

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer res.Cleanup()

	ledger := services.NewLedger(res.Repository)
	if _, err := ledger.Refresh(ctx); err != nil {
		return err
	}
	summary := ledger.Summary(core.ParseFilterMode(params.Filter), time.Now())

	var w io.Writer = os.Stdout
	if params.Out != "" {
		f, err := os.Create(params.Out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := report.Write(w, format, summary); err != nil {
		return err
	}
	if params.Out != "" {
		logger.Info("Report written", "path", params.Out, "format", format, "expenses", len(summary.Expenses))
	}
	return nil
}

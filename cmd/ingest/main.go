// Command ingest loads customer_data.xlsx and loan_data.xlsx from a directory into the
// database and prints one JSON report per file. It exits 1 when a file could not be read.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	repo "credit-approval-service/internal/adapter/repository/mysql"
	"credit-approval-service/internal/config"
	"credit-approval-service/internal/infrastructure/db"
	"credit-approval-service/internal/usecase/ingest"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load env", "err", err)
		os.Exit(1)
	}
	cfg := config.Load()

	dir := flag.String("dir", cfg.IngestDir, "directory holding "+ingest.CustomerFile+" and "+ingest.LoanFile)
	flag.Parse()

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	gdb, err := db.Open(cfg.DBDriver, cfg.DBTarget())
	if err != nil {
		log.Error("open db", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ing := ingest.NewIngester(repo.NewCustomerRepository(gdb), repo.NewLoanRepository(gdb), nil, log)
	reports := ing.ProcessDir(ctx, *dir)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(reports)

	if !ingest.AllCompleted(reports) {
		stop()
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"math"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/internal/settlement"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	// Settlement only reads and writes local files; the flag exists so every
	// stage accepts the same invocation.
	flag.Bool("dry-run", false, "no-op; settlement does no network I/O")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}

	results := make(settlement.ResultsBook)
	if err := persistence.ReadJSON(paths.ResultsFile(*date), &results); err != nil {
		if err != persistence.ErrNotExists {
			cli.Fatal(err)
		}
		logger.Infof("no results file for %s yet; only expired orders can settle", *date)
	}

	book := ledger.NewBook(paths.LedgerFile(), settings.Kelly.Bankroll)
	if _, err := book.Bootstrap(); err != nil {
		cli.Fatal(err)
	}

	dedup, err := settlement.OpenDedup(paths.SettlementDedupDir())
	if err != nil {
		cli.Fatal(err)
	}
	defer dedup.Close()

	breaker := risk.NewCircuitBreaker(risk.CircuitBreakerConfig{
		MaxConsecutiveErrors: settings.CircuitBreaker.MaxConsecutiveErrors,
		DailyLossLimitCents:  int64(math.Round(settings.CircuitBreaker.DailyLossLimit * 100)),
	})

	store := lifecycle.NewStore(settings.DataDir)
	applied, err := settlement.NewSettler(store, book, dedup, breaker).SettleDay(*date, results)
	if err != nil {
		cli.Fatal(err)
	}
	logger.Infof("settle done for %s: %d events applied", *date, applied)
}

package main

import (
	"flag"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/kelly"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/slips"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	// Sizing only reads and writes local files; the flag exists so every
	// stage accepts the same invocation.
	flag.Bool("dry-run", false, "no-op; sizing does no network I/O")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}

	var candidates []domain.CandidateBet
	if err := persistence.ReadJSON(paths.EVResultsFile(*date), &candidates); err != nil {
		if err != persistence.ErrNotExists {
			cli.Fatal(err)
		}
		logger.Infof("no EV results for %s, sizing an empty day", *date)
	}

	var bankroll kelly.BankrollSource
	if settings.Kelly.UseLedger {
		book := ledger.NewBook(paths.LedgerFile(), settings.Kelly.Bankroll)
		if _, err := book.Bootstrap(); err != nil {
			cli.Fatal(err)
		}
		bankroll = book
	}

	sized := kelly.NewSizer(settings.Kelly, bankroll).SizeAll(candidates)

	if err := persistence.WriteJSON(paths.SizedBetsFile(*date), sized); err != nil {
		cli.Fatal(err)
	}
	if err := slips.NewExporter(settings.DataDir).Export(*date, sized); err != nil {
		cli.Fatal(err)
	}
	logger.Infof("size-bets done for %s: %d bets sized", *date, len(sized))
}

package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/ev"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/kelly"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/internal/projections"
	"github.com/betbot/propbet/internal/quotes"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/internal/settlement"
	"github.com/betbot/propbet/internal/slips"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

// pipeline runs every stage for one date in order. Each stage reads the
// previous stage's file and writes its own, so a crash can be resumed by
// re-running the individual stage binaries.
func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "skip quote fetches and route orders to the simulated client")
	pollSeconds := flag.Int("poll-seconds", 30, "seconds between poll cycles")
	maxCycles := flag.Int("max-cycles", 0, "stop polling after this many cycles (0 = until done)")
	skipSettle := flag.Bool("skip-settle", false, "stop after polling, leave settlement for later")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}
	ctx := context.Background()

	// Stage 1: quotes.
	books, err := quotes.NewNormalizer(settings, *dryRun).Run(ctx, *date)
	if err != nil {
		cli.Fatal(err)
	}

	// Stage 2: projections and EV. A dry run never reaches the projections
	// API; a missing local file is then just an empty day.
	var client *projections.Client
	if !*dryRun && settings.DBB2API.BaseURL != "" {
		client = projections.NewClient(settings.DBB2API)
	}
	projBook := projections.LoadOrFetch(ctx, client, settings, *date)
	candidates := ev.NewCalculator(settings).Calculate(projBook, books)

	// Stage 3: risk overlay.
	rawRisk := make(domain.RiskMap)
	if err := persistence.ReadJSON(paths.RiskScoresFile(*date), &rawRisk); err != nil && err != persistence.ErrNotExists {
		logger.Warnf("unreadable risk scores for %s, using fallback weights: %v", *date, err)
		rawRisk = make(domain.RiskMap)
	}
	riskMap := risk.LoadRiskMap(rawRisk, settings.RiskOverlay.FallbackWeights)
	adjusted, _ := risk.NewOverlay(settings.RiskOverlay).Apply(candidates, riskMap)
	if adjusted == nil {
		adjusted = []domain.CandidateBet{}
	}
	if err := persistence.WriteJSON(paths.EVResultsFile(*date), adjusted); err != nil {
		cli.Fatal(err)
	}

	// Stage 4: sizing and slips.
	book := ledger.NewBook(paths.LedgerFile(), settings.Kelly.Bankroll)
	if _, err := book.Bootstrap(); err != nil {
		cli.Fatal(err)
	}
	var bankroll kelly.BankrollSource
	if settings.Kelly.UseLedger {
		bankroll = book
	}
	sized := kelly.NewSizer(settings.Kelly, bankroll).SizeAll(adjusted)
	if err := persistence.WriteJSON(paths.SizedBetsFile(*date), sized); err != nil {
		cli.Fatal(err)
	}
	if err := slips.NewExporter(settings.DataDir).Export(*date, sized); err != nil {
		cli.Fatal(err)
	}

	// Stage 5: placement and polling.
	router := exchange.BuildRouter(settings, *dryRun)
	breaker := risk.NewCircuitBreaker(risk.CircuitBreakerConfig{
		MaxConsecutiveErrors: settings.CircuitBreaker.MaxConsecutiveErrors,
		DailyLossLimitCents:  int64(math.Round(settings.CircuitBreaker.DailyLossLimit * 100)),
	})
	store := lifecycle.NewStore(settings.DataDir)

	if _, err := lifecycle.NewCreator(settings, router, breaker, store).PlaceAll(ctx, *date, sized); err != nil {
		cli.Fatal(err)
	}

	poller := lifecycle.NewPoller(store, router)
	poller.PollInterval = time.Duration(*pollSeconds) * time.Second
	poller.MaxCycles = *maxCycles

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Infof("received %s, finishing current cycle", sig)
		poller.Stop()
	}()

	if _, err := poller.Run(ctx, *date); err != nil {
		cli.Fatal(err)
	}

	if *skipSettle {
		logger.Infof("pipeline done for %s (settlement skipped)", *date)
		return
	}

	// Stage 6: settlement.
	results := make(settlement.ResultsBook)
	if err := persistence.ReadJSON(paths.ResultsFile(*date), &results); err != nil {
		if err != persistence.ErrNotExists {
			cli.Fatal(err)
		}
		logger.Infof("no results file for %s yet; only expired orders can settle", *date)
	}
	dedup, err := settlement.OpenDedup(paths.SettlementDedupDir())
	if err != nil {
		cli.Fatal(err)
	}
	defer dedup.Close()

	applied, err := settlement.NewSettler(store, book, dedup, breaker).SettleDay(*date, results)
	if err != nil {
		cli.Fatal(err)
	}
	logger.Infof("pipeline done for %s: %d settlement events applied", *date, applied)
}

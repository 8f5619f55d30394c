package main

import (
	"context"
	"flag"
	"math"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "route every order to the simulated client")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}

	var bets []domain.SizedBet
	if err := persistence.ReadJSON(paths.SizedBetsFile(*date), &bets); err != nil {
		if err != persistence.ErrNotExists {
			cli.Fatal(err)
		}
		logger.Infof("no sized bets for %s, nothing to place", *date)
	}

	router := exchange.BuildRouter(settings, *dryRun)
	breaker := risk.NewCircuitBreaker(risk.CircuitBreakerConfig{
		MaxConsecutiveErrors: settings.CircuitBreaker.MaxConsecutiveErrors,
		DailyLossLimitCents:  int64(math.Round(settings.CircuitBreaker.DailyLossLimit * 100)),
	})
	store := lifecycle.NewStore(settings.DataDir)

	orders, err := lifecycle.NewCreator(settings, router, breaker, store).PlaceAll(context.Background(), *date, bets)
	if err != nil {
		cli.Fatal(err)
	}
	logger.Infof("place-orders done for %s: %d orders on file", *date, len(orders))
}

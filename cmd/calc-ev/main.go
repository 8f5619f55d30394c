package main

import (
	"context"
	"flag"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/ev"
	"github.com/betbot/propbet/internal/projections"
	"github.com/betbot/propbet/internal/quotes"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "skip the projections fetch, compute from local files only")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}
	ctx := context.Background()

	// With no client, a missing projections file stays an empty day instead
	// of triggering an API fetch.
	var client *projections.Client
	if !*dryRun && settings.DBB2API.BaseURL != "" {
		client = projections.NewClient(settings.DBB2API)
	}
	book := projections.LoadOrFetch(ctx, client, settings, *date)
	books := quotes.LoadBooks(settings, *date)

	candidates := ev.NewCalculator(settings).Calculate(book, books)

	rawRisk := make(domain.RiskMap)
	if err := persistence.ReadJSON(paths.RiskScoresFile(*date), &rawRisk); err != nil && err != persistence.ErrNotExists {
		logger.Warnf("unreadable risk scores for %s, using fallback weights: %v", *date, err)
		rawRisk = make(domain.RiskMap)
	}
	riskMap := risk.LoadRiskMap(rawRisk, settings.RiskOverlay.FallbackWeights)

	adjusted, summary := risk.NewOverlay(settings.RiskOverlay).Apply(candidates, riskMap)
	if adjusted == nil {
		adjusted = []domain.CandidateBet{}
	}

	if err := persistence.WriteJSON(paths.EVResultsFile(*date), adjusted); err != nil {
		cli.Fatal(err)
	}
	logger.Infof("calc-ev done for %s: %d candidates (baseline=%d dropped=%d)",
		*date, len(adjusted), summary.BaselineCount, summary.DroppedCount)
}

package settlement

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/ev"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/kelly"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/internal/projections"
	"github.com/betbot/propbet/internal/quotes"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/internal/slips"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/persistence"
)

// A day with no quotes must flow through every stage producing valid empty
// artifacts and an untouched ledger, never an error.
func TestEmptyQuotesDayProducesEmptyArtifacts(t *testing.T) {
	const date = "2026-01-15"
	dir := t.TempDir()
	ctx := context.Background()

	settings := &config.Settings{
		DataDir: dir,
		Exchange: config.ExchangeSettings{
			IncludeSources:        []string{"prophetx"},
			TimeInForceSeconds:    3600,
			RequestTimeoutSeconds: 5,
		},
		EVThresholds: config.EVThresholds{TakeEdgePct: 5, MaxBetsPerDay: 10},
		Kelly:        config.KellySettings{Bankroll: 10000, Fraction: 0.25, MinUnits: 0.5, MaxUnits: 3},
		RiskOverlay: config.RiskOverlaySettings{
			Mode:                "observe",
			MaxAvailabilityRisk: 0.85,
		},
	}
	paths := persistence.Paths{DataDir: dir}

	books, err := quotes.NewNormalizer(settings, true).Run(ctx, date)
	require.NoError(t, err)

	projBook := projections.LoadOrFetch(ctx, nil, settings, date)
	candidates := ev.NewCalculator(settings).Calculate(projBook, books)
	adjusted, summary := risk.NewOverlay(settings.RiskOverlay).Apply(candidates, domain.RiskMap{})
	require.Zero(t, summary.BaselineCount)
	if adjusted == nil {
		adjusted = []domain.CandidateBet{}
	}
	require.NoError(t, persistence.WriteJSON(paths.EVResultsFile(date), adjusted))

	sized := kelly.NewSizer(settings.Kelly, nil).SizeAll(adjusted)
	require.NoError(t, persistence.WriteJSON(paths.SizedBetsFile(date), sized))
	require.NoError(t, slips.NewExporter(dir).Export(date, sized))

	router := exchange.NewRouter()
	router.Bind("prophetx", exchange.NewSimulatedClient())
	store := lifecycle.NewStore(dir)
	breaker := risk.NewCircuitBreaker(risk.CircuitBreakerConfig{})
	orders, err := lifecycle.NewCreator(settings, router, breaker, store).PlaceAll(ctx, date, sized)
	require.NoError(t, err)
	require.Empty(t, orders)

	book := ledger.NewBook(paths.LedgerFile(), settings.Kelly.Bankroll)
	_, err = book.Bootstrap()
	require.NoError(t, err)
	dedup, err := OpenDedup(filepath.Join(dir, "seen"))
	require.NoError(t, err)
	defer dedup.Close()

	applied, err := NewSettler(store, book, dedup, breaker).SettleDay(date, ResultsBook{})
	require.NoError(t, err)
	require.Zero(t, applied)

	// Every artifact exists and is empty.
	var quoteBook domain.QuoteBook
	require.NoError(t, persistence.ReadJSON(paths.QuotesFile("prophetx", date), &quoteBook))
	require.Empty(t, quoteBook)

	var evOut []domain.CandidateBet
	require.NoError(t, persistence.ReadJSON(paths.EVResultsFile(date), &evOut))
	require.Empty(t, evOut)

	var sizedOut []domain.SizedBet
	require.NoError(t, persistence.ReadJSON(paths.SizedBetsFile(date), &sizedOut))
	require.Empty(t, sizedOut)

	var slipOut []domain.SizedBet
	require.NoError(t, persistence.ReadJSON(paths.BetSlipJSONFile(date), &slipOut))
	require.Empty(t, slipOut)

	dayOrders, err := store.Load(date)
	require.NoError(t, err)
	require.Empty(t, dayOrders)

	bankroll, err := book.CurrentBankroll()
	require.NoError(t, err)
	require.Equal(t, 10000.0, bankroll)
}

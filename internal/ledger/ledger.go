package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

// ErrCorrupt means a ledger file exists but cannot be read. This is fatal:
// silently re-bootstrapping would erase the accumulated history.
var ErrCorrupt = errors.New("ledger file is corrupt")

// DailyLogEntry is the per-day roll-up appended by settlement.
type DailyLogEntry struct {
	Date     string  `json:"date"`
	Bets     int     `json:"bets"`
	PnL      float64 `json:"pnl"`
	Bankroll float64 `json:"bankroll"`
}

// Ledger is the single persistent bankroll record. One per process, one
// per data directory; only settlement ever changes it.
type Ledger struct {
	StartingBankroll float64         `json:"starting_bankroll"`
	CurrentBankroll  float64         `json:"current_bankroll"`
	UnitValue        float64         `json:"unit_value"`
	TotalBets        int             `json:"total_bets"`
	Wins             int             `json:"wins"`
	Losses           int             `json:"losses"`
	Pushes           int             `json:"pushes"`
	NoAction         int             `json:"no_action"`
	TotalWagered     float64         `json:"total_wagered"`
	TotalPnL         float64         `json:"total_pnl"`
	ROIPct           float64         `json:"roi_pct"`
	WinRatePct       float64         `json:"win_rate_pct"`
	DailyLog         []DailyLogEntry `json:"daily_log"`
}

// Book owns the ledger file. All other components read bankroll and unit
// value through it; only ApplySettlement writes.
type Book struct {
	path             string
	startingBankroll float64
}

// NewBook points at a ledger file with a fixed bootstrap bankroll.
func NewBook(path string, startingBankroll float64) *Book {
	return &Book{path: path, startingBankroll: startingBankroll}
}

// Bootstrap creates the ledger file when none exists and otherwise loads
// it unchanged. Re-running the process never resets history: an existing
// but unreadable file is ErrCorrupt, not a fresh start.
func (b *Book) Bootstrap() (*Ledger, error) {
	ledger, err := b.load()
	if err == nil {
		return ledger, nil
	}
	if errors.Is(err, persistence.ErrNotExists) {
		fresh := &Ledger{
			StartingBankroll: b.startingBankroll,
			CurrentBankroll:  b.startingBankroll,
			UnitValue:        b.startingBankroll / 100,
			DailyLog:         []DailyLogEntry{},
		}
		if err := persistence.WriteJSON(b.path, fresh); err != nil {
			return nil, errors.Wrap(err, "write fresh ledger")
		}
		logger.Infof("bootstrapped ledger at %s with bankroll %.2f", b.path, b.startingBankroll)
		return fresh, nil
	}
	return nil, err
}

func (b *Book) load() (*Ledger, error) {
	ledger := &Ledger{}
	err := persistence.ReadJSON(b.path, ledger)
	if err == persistence.ErrNotExists {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", b.path, err)
	}
	if ledger.StartingBankroll <= 0 {
		return nil, errors.Wrapf(ErrCorrupt, "%s: non-positive starting bankroll", b.path)
	}
	return ledger, nil
}

// CurrentBankroll is a pure read.
func (b *Book) CurrentBankroll() (float64, error) {
	ledger, err := b.load()
	if err != nil {
		return 0, err
	}
	return ledger.CurrentBankroll, nil
}

// UnitValue is a pure read: bankroll / 100.
func (b *Book) UnitValue() (float64, error) {
	ledger, err := b.load()
	if err != nil {
		return 0, err
	}
	return ledger.UnitValue, nil
}

// ApplySettlement folds one settlement event into the ledger under an
// exclusive file lock: read, mutate, recompute derived figures, write.
// Callers guarantee at-most-once delivery per order (the settlement
// component's dedup store); the ledger itself never retries.
func (b *Book) ApplySettlement(event domain.SettlementEvent) error {
	return persistence.LockedUpdate(b.path, func() error {
		ledger, err := b.load()
		if err != nil {
			return err
		}

		apply(ledger, event)

		if err := persistence.WriteJSON(b.path, ledger); err != nil {
			return errors.Wrap(err, "write ledger")
		}
		logger.WithField("order_id", event.OrderID).Infof(
			"settled %s: pnl=%.2f bankroll=%.2f", event.Outcome, event.PnL, ledger.CurrentBankroll)
		return nil
	})
}

// apply mutates the ledger for one event. Money math runs through decimal
// so repeated settlements cannot accumulate float drift.
func apply(ledger *Ledger, event domain.SettlementEvent) {
	bankroll := decimal.NewFromFloat(ledger.CurrentBankroll)
	totalPnL := decimal.NewFromFloat(ledger.TotalPnL)
	totalWagered := decimal.NewFromFloat(ledger.TotalWagered)
	pnl := decimal.NewFromFloat(event.PnL)

	ledger.TotalBets++
	switch event.Outcome {
	case domain.OutcomeWin:
		ledger.Wins++
	case domain.OutcomeLoss:
		ledger.Losses++
	case domain.OutcomePush:
		ledger.Pushes++
	case domain.OutcomeNoAction:
		ledger.NoAction++
	}

	// NO_ACTION stakes were never at risk, so they do not count as handle.
	if event.Outcome != domain.OutcomeNoAction {
		totalWagered = totalWagered.Add(decimal.NewFromFloat(event.Wagered))
	}

	bankroll = bankroll.Add(pnl)
	totalPnL = totalPnL.Add(pnl)

	ledger.CurrentBankroll, _ = bankroll.Round(2).Float64()
	ledger.TotalPnL, _ = totalPnL.Round(2).Float64()
	ledger.TotalWagered, _ = totalWagered.Round(2).Float64()
	ledger.UnitValue, _ = bankroll.Div(decimal.NewFromInt(100)).Round(4).Float64()

	starting := decimal.NewFromFloat(ledger.StartingBankroll)
	if starting.IsPositive() {
		roi, _ := totalPnL.Div(starting).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		ledger.ROIPct = roi
	}
	if ledger.TotalBets > 0 {
		winRate := decimal.NewFromInt(int64(ledger.Wins)).
			Div(decimal.NewFromInt(int64(ledger.TotalBets))).
			Mul(decimal.NewFromInt(100))
		ledger.WinRatePct, _ = winRate.Round(2).Float64()
	}

	appendDaily(ledger, event)
}

func appendDaily(ledger *Ledger, event domain.SettlementEvent) {
	for i := range ledger.DailyLog {
		if ledger.DailyLog[i].Date == event.Date {
			ledger.DailyLog[i].Bets++
			ledger.DailyLog[i].PnL += event.PnL
			ledger.DailyLog[i].Bankroll = ledger.CurrentBankroll
			return
		}
	}
	ledger.DailyLog = append(ledger.DailyLog, DailyLogEntry{
		Date:     event.Date,
		Bets:     1,
		PnL:      event.PnL,
		Bankroll: ledger.CurrentBankroll,
	})
}

package persistence

import (
	"path/filepath"
	"time"
)

// DateFormat keys every per-day artifact file.
const DateFormat = "2006-01-02"

// Today returns the current date in artifact-key form.
func Today() string {
	return time.Now().Format(DateFormat)
}

// Paths resolves the pipeline's file contracts under one data directory.
// Per-day paths are deterministic, so runs for different days never collide.
type Paths struct {
	DataDir string
}

func (p Paths) QuotesFile(source, date string) string {
	return filepath.Join(p.DataDir, "quotes", source, date+".json")
}

func (p Paths) ProjectionsFile(date string) string {
	return filepath.Join(p.DataDir, "projections", date+".json")
}

func (p Paths) EVResultsFile(date string) string {
	return filepath.Join(p.DataDir, "ev_results", date+".json")
}

func (p Paths) SizedBetsFile(date string) string {
	return filepath.Join(p.DataDir, "sized_bets", date+".json")
}

func (p Paths) OrdersFile(date string) string {
	return filepath.Join(p.DataDir, "orders", date+".json")
}

func (p Paths) BetSlipJSONFile(date string) string {
	return filepath.Join(p.DataDir, "bet_slips", date+".json")
}

func (p Paths) BetSlipMarkdownFile(date string) string {
	return filepath.Join(p.DataDir, "bet_slips", date+".md")
}

func (p Paths) LedgerFile() string {
	return filepath.Join(p.DataDir, "ledger.json")
}

func (p Paths) RiskScoresFile(date string) string {
	return filepath.Join(p.DataDir, "risk_scores", date+".json")
}

func (p Paths) ResultsFile(date string) string {
	return filepath.Join(p.DataDir, "results", date+".json")
}

func (p Paths) SettlementDedupDir() string {
	return filepath.Join(p.DataDir, "settlement_seen")
}

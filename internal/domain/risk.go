package domain

// RiskScore is an externally supplied per-player risk assessment, keyed by
// lower-cased player name. The component scores are optional; TotalRisk may
// be synthesized from whatever subset is present.
type RiskScore struct {
	InjuryRisk       *float64 `json:"injury_risk,omitempty"`
	MinutesRisk      *float64 `json:"minutes_risk,omitempty"`
	Volatility       *float64 `json:"volatility,omitempty"`
	TotalRisk        float64  `json:"total_risk"`
	AvailabilityRisk float64  `json:"availability_risk"`
}

// RiskMap maps lower-cased player name -> RiskScore.
type RiskMap map[string]RiskScore

// Outcome is the graded result of a settled order.
type Outcome string

const (
	OutcomeWin      Outcome = "WIN"
	OutcomeLoss     Outcome = "LOSS"
	OutcomePush     Outcome = "PUSH"
	OutcomeNoAction Outcome = "NO_ACTION"
)

// SettlementEvent carries one order's real-world result into the ledger.
// PnL is net: positive for a win, negative stake for a loss, zero for
// push/no-action.
type SettlementEvent struct {
	OrderID string  `json:"order_id"`
	Date    string  `json:"date"`
	Outcome Outcome `json:"outcome"`
	Wagered float64 `json:"wagered"`
	PnL     float64 `json:"pnl"`
}

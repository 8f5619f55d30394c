package domain

// ExecutionType distinguishes bets that cross the book immediately from
// bets posted at a better price.
type ExecutionType string

const (
	ExecutionTake ExecutionType = "take"
	ExecutionMake ExecutionType = "make"
)

// CandidateBet is an EV row: a (player, prop, side) where the model
// disagrees with the market by more than the configured minimum.
// EdgePct is signed so that positive means the model favors Direction.
type CandidateBet struct {
	PlayerName    string        `json:"player_name"`
	PropType      string        `json:"prop_type"`
	Direction     Direction     `json:"direction"`
	EdgePct       float64       `json:"edge_pct"`
	Confidence    float64       `json:"confidence"`
	Line          float64       `json:"line"`
	Odds          *int          `json:"odds,omitempty"`
	Price         *float64      `json:"price,omitempty"`
	AvailableSize float64       `json:"available_size"`
	Source        string        `json:"source"`
	ExecutionType ExecutionType `json:"execution_type"`
	DemoOnly      bool          `json:"demo_only,omitempty"`

	// Risk overlay annotations. UnitsScale defaults to 1 and is applied by
	// the sizer; EnhancedRiskPenalty records the haircut for the audit trail.
	UnitsScale          float64 `json:"units_scale,omitempty"`
	EnhancedRiskPenalty float64 `json:"enhanced_risk_penalty,omitempty"`
}

// Key identifies the market a candidate competes for.
func (c CandidateBet) Key() string {
	return c.PlayerName + "|" + c.PropType
}

// SizedBet is a candidate with a stake attached. Units are half-unit
// granular; Dollars is zero when there is no tradable price.
type SizedBet struct {
	CandidateBet
	Units   float64 `json:"units"`
	Dollars float64 `json:"dollars"`
}

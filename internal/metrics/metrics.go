package metrics

import "expvar"

// Pipeline counters, exposed on the status server's /debug/vars.
var (
	QuotesFetched      = expvar.NewInt("quotes_fetched")
	CandidatesEmitted  = expvar.NewInt("candidates_emitted")
	BetsDropped        = expvar.NewInt("bets_dropped_by_risk")
	OrdersPlaced       = expvar.NewInt("orders_placed")
	OrdersFilled       = expvar.NewInt("orders_filled")
	OrdersExpired      = expvar.NewInt("orders_expired")
	SettlementsApplied = expvar.NewInt("settlements_applied")
)

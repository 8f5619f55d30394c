package domain

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the side of a prop bet. YES means the player goes over the
// line, NO means under.
type Direction string

const (
	DirectionYes Direction = "YES"
	DirectionNo  Direction = "NO"
)

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == DirectionYes {
		return DirectionNo
	}
	return DirectionYes
}

// Quote is one exchange's price for a single (player, prop) on a single day.
// Immutable once fetched.
type Quote struct {
	PlayerName    string    `json:"player_name"`
	PropType      string    `json:"prop_type"`
	Line          float64   `json:"line"`
	YesPrice      *float64  `json:"yes_price,omitempty"`
	NoPrice       *float64  `json:"no_price,omitempty"`
	AmericanYes   *int      `json:"american_yes,omitempty"`
	AmericanNo    *int      `json:"american_no,omitempty"`
	AvailableSize float64   `json:"available_size"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	DemoOnly      bool      `json:"demo_only,omitempty"`
}

// QuoteBook maps player name -> prop type -> Quote for one source.
type QuoteBook map[string]map[string]Quote

// Put inserts a quote, allocating the inner map as needed.
func (b QuoteBook) Put(q Quote) {
	props, ok := b[q.PlayerName]
	if !ok {
		props = make(map[string]Quote)
		b[q.PlayerName] = props
	}
	props[q.PropType] = q
}

// SidePrice returns the quoted price for one side, if present.
func (q Quote) SidePrice(d Direction) *float64 {
	if d == DirectionYes {
		return q.YesPrice
	}
	return q.NoPrice
}

// SideOdds returns the American odds for one side, if present.
func (q Quote) SideOdds(d Direction) *int {
	if d == DirectionYes {
		return q.AmericanYes
	}
	return q.AmericanNo
}

// Validate checks the fields a quote must carry to be usable downstream.
// Called at the ingestion boundary only.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.PlayerName) == "" {
		return fmt.Errorf("quote missing player_name")
	}
	if strings.TrimSpace(q.PropType) == "" {
		return fmt.Errorf("quote missing prop_type")
	}
	if q.Line <= 0 {
		return fmt.Errorf("quote %s/%s: non-positive line %.2f", q.PlayerName, q.PropType, q.Line)
	}
	if q.YesPrice == nil && q.NoPrice == nil && q.AmericanYes == nil && q.AmericanNo == nil {
		return fmt.Errorf("quote %s/%s: no price on either side", q.PlayerName, q.PropType)
	}
	return nil
}

// Projection is the model's view of a player prop for the day.
// Supplied externally, never mutated by the pipeline.
type Projection struct {
	PlayerName string  `json:"player_name"`
	PropType   string  `json:"prop_type"`
	Projection float64 `json:"projection"`
	StdDev     float64 `json:"std_dev"`
	Confidence float64 `json:"confidence"`
}

// ProjectionBook maps player name -> prop type -> Projection.
type ProjectionBook map[string]map[string]Projection

package quotes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/propbet/internal/domain"
)

func init() {
	Register("novig", func(baseURL string, timeoutSeconds int) SourceAdapter {
		return newNovigAdapter(baseURL, timeoutSeconds)
	})
}

// novigAdapter reads Novig's player prop lines. Novig quotes both sides in
// American odds.
type novigAdapter struct {
	client *resty.Client
}

func newNovigAdapter(baseURL string, timeoutSeconds int) *novigAdapter {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)
	return &novigAdapter{client: client}
}

func (a *novigAdapter) Name() string { return "novig" }

func (a *novigAdapter) FetchRaw(ctx context.Context) ([]byte, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("status", "open").
		Get("/api/player-props")
	if err != nil {
		return nil, errors.Wrap(err, "novig: fetch props")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("novig: props returned %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// novigProps is the venue's wire shape.
type novigProps struct {
	Props []struct {
		PlayerName string  `json:"player_name"`
		Market     string  `json:"market"`
		Line       float64 `json:"line"`
		OverOdds   int     `json:"over_odds"`
		UnderOdds  int     `json:"under_odds"`
		MaxStake   float64 `json:"max_stake"`
		QuotedAt   string  `json:"quoted_at"`
	} `json:"props"`
}

func (a *novigAdapter) Normalize(raw []byte) (domain.QuoteBook, error) {
	var payload novigProps
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "novig: decode props")
	}

	book := make(domain.QuoteBook)
	for _, p := range payload.Props {
		ts, err := time.Parse(time.RFC3339, p.QuotedAt)
		if err != nil {
			ts = time.Now().UTC()
		}
		over, under := p.OverOdds, p.UnderOdds
		q := domain.Quote{
			PlayerName:    p.PlayerName,
			PropType:      p.Market,
			Line:          p.Line,
			AvailableSize: p.MaxStake,
			Source:        a.Name(),
			Timestamp:     ts,
		}
		if over != 0 {
			q.AmericanYes = &over
		}
		if under != 0 {
			q.AmericanNo = &under
		}
		book.Put(q)
	}
	return book, nil
}

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
	Register("prophetx", func(baseURL string, timeoutSeconds int) SourceAdapter {
		return newProphetXAdapter(baseURL, timeoutSeconds)
	})
}

// prophetxAdapter reads ProphetX's prop board. ProphetX prices both sides
// in probability terms (yes_price/no_price in [0,1]).
type prophetxAdapter struct {
	client *resty.Client
}

func newProphetXAdapter(baseURL string, timeoutSeconds int) *prophetxAdapter {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == 429 {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})
	return &prophetxAdapter{client: client}
}

func (a *prophetxAdapter) Name() string { return "prophetx" }

func (a *prophetxAdapter) FetchRaw(ctx context.Context) ([]byte, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/v1/props/board")
	if err != nil {
		return nil, errors.Wrap(err, "prophetx: fetch board")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("prophetx: board returned %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// prophetxBoard is the venue's wire shape.
type prophetxBoard struct {
	Markets []struct {
		Player    string  `json:"player"`
		StatType  string  `json:"stat_type"`
		Line      float64 `json:"line"`
		YesPrice  float64 `json:"yes_price"`
		NoPrice   float64 `json:"no_price"`
		OpenSize  float64 `json:"open_size"`
		UpdatedAt int64   `json:"updated_at"`
	} `json:"markets"`
}

func (a *prophetxAdapter) Normalize(raw []byte) (domain.QuoteBook, error) {
	var board prophetxBoard
	if err := json.Unmarshal(raw, &board); err != nil {
		return nil, errors.Wrap(err, "prophetx: decode board")
	}

	book := make(domain.QuoteBook)
	for _, m := range board.Markets {
		yes, no := m.YesPrice, m.NoPrice
		q := domain.Quote{
			PlayerName:    m.Player,
			PropType:      m.StatType,
			Line:          m.Line,
			AvailableSize: m.OpenSize,
			Source:        a.Name(),
			Timestamp:     time.Unix(m.UpdatedAt, 0).UTC(),
		}
		if yes > 0 && yes < 1 {
			q.YesPrice = &yes
		}
		if no > 0 && no < 1 {
			q.NoPrice = &no
		}
		book.Put(q)
	}
	return book, nil
}

package projections

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

// Client talks to the dbb2 projections API. The pipeline treats
// projections as read-only: fetched once per day, cached as the day's
// projections file, never mutated.
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient builds a client from dbb2 settings (env overrides already
// applied by config.Load).
func NewClient(s config.DBB2APISettings) *Client {
	http := resty.New().
		SetBaseURL(s.BaseURL).
		SetTimeout(time.Duration(s.TimeoutSeconds) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second)
	if s.APIKey != "" {
		http.SetHeader("X-API-Key", s.APIKey)
	}
	return &Client{http: http, endpoint: s.ProjectionsEndpoint}
}

// Fetch pulls the day's projections from the API.
func (c *Client) Fetch(ctx context.Context, date string) (domain.ProjectionBook, error) {
	book := make(domain.ProjectionBook)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetResult(&book).
		Get(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "dbb2: fetch projections")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("dbb2: projections returned %d", resp.StatusCode())
	}
	return book, nil
}

// LoadOrFetch prefers the local projections file; on a miss it fetches from
// the API and writes the file for the rest of the pipeline. A nil client
// (or fetch failure) yields an empty book: no projections means nothing to
// do today, not an error.
func LoadOrFetch(ctx context.Context, c *Client, settings *config.Settings, date string) domain.ProjectionBook {
	paths := persistence.Paths{DataDir: settings.DataDir}
	book := make(domain.ProjectionBook)

	err := persistence.ReadJSON(paths.ProjectionsFile(date), &book)
	if err == nil {
		return book
	}
	if err != persistence.ErrNotExists {
		logger.Warnf("unreadable projections file for %s: %v", date, err)
		return make(domain.ProjectionBook)
	}

	if c == nil {
		logger.Infof("no projections file for %s and no API client; empty day", date)
		return book
	}

	fetched, err := c.Fetch(ctx, date)
	if err != nil {
		logger.Warnf("projections fetch failed for %s, treating as empty day: %v", date, err)
		return book
	}
	if err := persistence.WriteJSON(paths.ProjectionsFile(date), fetched); err != nil {
		logger.Warnf("could not cache projections for %s: %v", date, err)
	}
	return fetched
}

package quotes

import (
	"context"
	"sync"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
	"github.com/betbot/propbet/pkg/ratelimit"
	"github.com/betbot/propbet/pkg/syncgroup"
)

// Normalizer fetches and canonicalizes quotes across all configured
// sources. Sources are processed independently: one source failing or being
// unknown contributes an empty book and never fails the run.
type Normalizer struct {
	settings *config.Settings
	paths    persistence.Paths
	limiter  ratelimit.RateLimiter
	dryRun   bool
}

// NewNormalizer builds a normalizer for one pipeline run.
func NewNormalizer(settings *config.Settings, dryRun bool) *Normalizer {
	return &Normalizer{
		settings: settings,
		paths:    persistence.Paths{DataDir: settings.DataDir},
		limiter:  ratelimit.NewTokenBucket(5, 2),
		dryRun:   dryRun,
	}
}

// Run fetches every included source concurrently and writes one quote file
// per source for the date. Returns the merged per-source books.
func (n *Normalizer) Run(ctx context.Context, date string) (map[string]domain.QuoteBook, error) {
	sources := n.settings.Exchange.IncludeSources
	books := make(map[string]domain.QuoteBook, len(sources))

	var mu sync.Mutex
	group := syncgroup.NewSyncGroup()
	for _, source := range sources {
		source := source
		group.Add(func() {
			book := n.fetchSource(ctx, source)
			mu.Lock()
			books[source] = book
			mu.Unlock()
		})
	}
	group.Run()
	group.Wait()

	for _, source := range sources {
		book := books[source]
		path := n.paths.QuotesFile(source, date)
		if err := persistence.WriteJSON(path, book); err != nil {
			return nil, err
		}
		for _, props := range book {
			metrics.QuotesFetched.Add(int64(len(props)))
		}
		logger.WithField("source", source).Infof("wrote %d players of quotes to %s", len(book), path)
	}

	return books, nil
}

// fetchSource never returns an error: failures degrade to an empty book.
func (n *Normalizer) fetchSource(ctx context.Context, source string) domain.QuoteBook {
	book := make(domain.QuoteBook)

	if n.dryRun {
		logger.WithField("source", source).Info("dry run: skipping fetch")
		return book
	}

	adapter, ok := NewAdapter(source, n.settings.Exchange.BaseURLs[source], n.settings.Exchange.RequestTimeoutSeconds)
	if !ok {
		logger.Warnf("unknown quote source %q, contributing empty quote set (known: %v)", source, RegisteredSources())
		return book
	}

	if err := n.limiter.Wait(ctx); err != nil {
		logger.WithField("source", source).Errorf("rate limiter interrupted: %v", err)
		return book
	}

	raw, err := adapter.FetchRaw(ctx)
	if err != nil {
		logger.WithField("source", source).Errorf("fetch failed, contributing empty quote set: %v", err)
		return book
	}

	normalized, err := adapter.Normalize(raw)
	if err != nil {
		logger.WithField("source", source).Errorf("normalize failed, contributing empty quote set: %v", err)
		return book
	}

	demoOnly := n.settings.IsDemoOnly(source)
	for _, props := range normalized {
		for _, q := range props {
			if err := q.Validate(); err != nil {
				logger.WithField("source", source).Debugf("dropping invalid quote: %v", err)
				continue
			}
			q.DemoOnly = demoOnly
			book.Put(q)
		}
	}
	return book
}

// LoadBooks reads previously written quote files for the date. A missing
// file means that source simply has nothing today.
func LoadBooks(settings *config.Settings, date string) map[string]domain.QuoteBook {
	paths := persistence.Paths{DataDir: settings.DataDir}
	books := make(map[string]domain.QuoteBook)
	for _, source := range settings.Exchange.IncludeSources {
		book := make(domain.QuoteBook)
		err := persistence.ReadJSON(paths.QuotesFile(source, date), &book)
		if err != nil && err != persistence.ErrNotExists {
			logger.WithField("source", source).Warnf("unreadable quotes file: %v", err)
		}
		books[source] = book
	}
	return books
}

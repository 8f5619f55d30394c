package quotes

import (
	"context"
	"sort"
	"sync"

	"github.com/betbot/propbet/internal/domain"
)

// SourceAdapter is the per-exchange capability set: fetch the raw odds
// payload, then map it into canonical quotes. Adapters are registered by
// name; the normalizer never branches on source strings inline.
type SourceAdapter interface {
	Name() string
	FetchRaw(ctx context.Context) ([]byte, error)
	Normalize(raw []byte) (domain.QuoteBook, error)
}

// Factory builds an adapter from its base URL and request timeout seconds.
type Factory func(baseURL string, timeoutSeconds int) SourceAdapter

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a source factory. Called from adapter init functions.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// NewAdapter instantiates a registered source adapter, or reports false for
// an unknown source.
func NewAdapter(name, baseURL string, timeoutSeconds int) (SourceAdapter, bool) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(baseURL, timeoutSeconds), true
}

// RegisteredSources lists known source names, sorted.
func RegisteredSources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package projections

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/persistence"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{DataDir: t.TempDir()}
}

func TestLoadOrFetchPrefersLocalFile(t *testing.T) {
	settings := testSettings(t)
	paths := persistence.Paths{DataDir: settings.DataDir}

	want := domain.ProjectionBook{
		"LeBron James": {
			"points": {PlayerName: "LeBron James", PropType: "points", Projection: 31, StdDev: 3, Confidence: 0.7},
		},
	}
	require.NoError(t, persistence.WriteJSON(paths.ProjectionsFile("2026-01-15"), want))

	// A populated file means no client is ever needed.
	got := LoadOrFetch(context.Background(), nil, settings, "2026-01-15")
	require.Equal(t, want, got)
}

func TestLoadOrFetchNilClientIsEmptyDay(t *testing.T) {
	settings := testSettings(t)
	paths := persistence.Paths{DataDir: settings.DataDir}

	got := LoadOrFetch(context.Background(), nil, settings, "2026-01-15")
	require.Empty(t, got)

	// No fetch happened, so nothing was cached to disk either.
	_, err := os.Stat(paths.ProjectionsFile("2026-01-15"))
	require.True(t, os.IsNotExist(err))
}

package slips

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

// Exporter writes the day's sized bets in both machine (JSON) and human
// (markdown table) form. An empty day still produces a valid empty slip
// and a header-only table.
type Exporter struct {
	paths persistence.Paths
}

func NewExporter(dataDir string) *Exporter {
	return &Exporter{paths: persistence.Paths{DataDir: dataDir}}
}

// Export writes both slip files for the date.
func (e *Exporter) Export(date string, bets []domain.SizedBet) error {
	if bets == nil {
		bets = []domain.SizedBet{}
	}

	if err := persistence.WriteJSON(e.paths.BetSlipJSONFile(date), bets); err != nil {
		return err
	}

	mdPath := e.paths.BetSlipMarkdownFile(date)
	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(mdPath, []byte(renderMarkdown(date, bets)), 0o644); err != nil {
		return err
	}

	logger.Infof("exported bet slip for %s: %d bets", date, len(bets))
	return nil
}

func renderMarkdown(date string, bets []domain.SizedBet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Bet Slip %s\n\n", date)
	b.WriteString("| Player | Prop | Side | Line | Odds | Edge % | Units | Dollars | Source |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, bet := range bets {
		odds := "-"
		if bet.Odds != nil {
			odds = fmt.Sprintf("%+d", *bet.Odds)
		}
		source := bet.Source
		if bet.DemoOnly {
			source += " (demo)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f | %s | %.2f | %.1f | $%.2f | %s |\n",
			bet.PlayerName, bet.PropType, bet.Direction, bet.Line, odds,
			bet.EdgePct, bet.Units, bet.Dollars, source)
	}
	return b.String()
}

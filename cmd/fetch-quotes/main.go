package main

import (
	"context"
	"flag"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/quotes"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "skip network calls, write empty quote files")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)

	normalizer := quotes.NewNormalizer(settings, *dryRun)
	books, err := normalizer.Run(context.Background(), *date)
	if err != nil {
		cli.Fatal(err)
	}

	total := 0
	for _, book := range books {
		for _, props := range book {
			total += len(props)
		}
	}
	logger.Infof("fetch-quotes done for %s: %d quotes across %d sources", *date, total, len(books))
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	date := flag.String("date", persistence.Today(), "pipeline date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "route every order to the simulated client")
	pollSeconds := flag.Int("poll-seconds", 30, "seconds between poll cycles")
	maxCycles := flag.Int("max-cycles", 0, "stop after this many cycles (0 = until done)")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)

	store := lifecycle.NewStore(settings.DataDir)
	router := exchange.BuildRouter(settings, *dryRun)

	poller := lifecycle.NewPoller(store, router)
	poller.PollInterval = time.Duration(*pollSeconds) * time.Second
	poller.MaxCycles = *maxCycles

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Infof("received %s, finishing current cycle", sig)
		poller.Stop()
	}()

	orders, err := poller.Run(context.Background(), *date)
	if err != nil {
		cli.Fatal(err)
	}
	logger.Infof("poll-orders done for %s: %d orders on file", *date, len(orders))
}

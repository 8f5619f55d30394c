package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/betbot/propbet/internal/cli"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/server"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/persistence"
	"github.com/betbot/propbet/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "yml/propbet.yaml", "settings file (.yaml)")
	flag.Parse()

	settings := cli.Bootstrap(*configPath)
	paths := persistence.Paths{DataDir: settings.DataDir}

	book := ledger.NewBook(paths.LedgerFile(), settings.Kelly.Bankroll)
	if _, err := book.Bootstrap(); err != nil {
		cli.Fatal(err)
	}

	srv := &http.Server{
		Addr:    settings.Server.ListenAddr,
		Handler: server.New(settings.DataDir, book).Router(),
	}

	manager := shutdown.NewManager()
	manager.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnf("server shutdown: %v", err)
		}
	})

	go func() {
		logger.Infof("status server listening on %s", settings.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cli.Fatal(err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	logger.Infof("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	manager.Shutdown(ctx)
}

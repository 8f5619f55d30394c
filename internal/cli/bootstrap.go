package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
)

// Bootstrap loads .env, settings and logging for a stage binary.
// Configuration errors are fatal here, before any stage I/O.
func Bootstrap(configPath string) *config.Settings {
	_ = godotenv.Load()

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      settings.Log.Level,
		OutputFile: settings.Log.File,
		MaxSize:    settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAge:     settings.Log.MaxAgeDays,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}

	return settings
}

// Fatal logs and exits non-zero. Reserved for the failures the pipeline
// must not swallow: ledger corruption and broken writes.
func Fatal(err error) {
	logger.Errorf("fatal: %v", err)
	os.Exit(1)
}

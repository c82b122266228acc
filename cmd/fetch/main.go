// Command fetch runs a single alert fetch against the configured source and
// writes the result as JSON. It uses the same orchestrator as the service,
// so a failing source prints the fallback set with its status.
//
// Usage:
//
//	go run ./cmd/fetch -source firms -days 3 -out alerts.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/canopix-alert-service/internal/config"
	"github.com/couchcryptid/canopix-alert-service/internal/observability"
	"github.com/couchcryptid/canopix-alert-service/internal/pipeline"
	"github.com/couchcryptid/canopix-alert-service/internal/source"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	src := flag.String("source", "", "alert source: firms, fusion or static (default $SOURCE)")
	days := flag.Int("days", 0, "day range to request, clamped to 1-10 (default $DAY_RANGE)")
	out := flag.String("out", "", "output path (default stdout)")
	summary := flag.Bool("summary", false, "print the source summary instead of alerts")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*src)
	if err != nil {
		return err
	}
	if *days == 0 {
		*days = cfg.DayRange
	}

	// Log to stderr so stdout stays valid JSON.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := source.New(cfg, clockwork.NewRealClock(), logger)
	if err != nil {
		return err
	}
	orch := pipeline.NewOrchestrator(s, logger, observability.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var v any
	if *summary {
		sum := orch.FetchSummary(ctx)
		if sum == nil {
			return fmt.Errorf("source %q has no summary", s.Name())
		}
		v = sum
	} else {
		v = orch.FetchAlerts(ctx, *days)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %s", *out)
	return nil
}

// loadConfig reads the environment with the -source flag taking precedence
// over SOURCE.
func loadConfig(source string) (*config.Config, error) {
	if source != "" {
		if err := os.Setenv("SOURCE", source); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/adapter/firms"
	"github.com/couchcryptid/canopix-alert-service/internal/adapter/fusion"
	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Source names accepted by SOURCE.
const (
	SourceFIRMS  = "firms"
	SourceFusion = "fusion"
	SourceStatic = "static"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Source string

	FIRMSBaseURL string
	FIRMSMapKey  string
	FIRMSSensor  string
	FIRMSBBox    string

	FusionBaseURL string

	FetchTimeout    time.Duration
	DayRange        int
	RefreshInterval time.Duration // zero disables the background refresher

	HTTPAddr        string
	EngineAddr      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Snapshot export.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "15s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT: must be a positive duration")
	}

	refreshInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_INTERVAL", "15m"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL: must be a non-negative duration")
	}

	dayRange, err := parseDayRange()
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Source:          strings.ToLower(sharedcfg.EnvOrDefault("SOURCE", SourceFIRMS)),
		FIRMSBaseURL:    sharedcfg.EnvOrDefault("FIRMS_BASE_URL", firms.DefaultBaseURL),
		FIRMSMapKey:     os.Getenv("FIRMS_MAP_KEY"),
		FIRMSSensor:     sharedcfg.EnvOrDefault("FIRMS_SENSOR", firms.DefaultSensor),
		FIRMSBBox:       sharedcfg.EnvOrDefault("FIRMS_BBOX", domain.IndiaBBox),
		FusionBaseURL:   sharedcfg.EnvOrDefault("FUSION_BASE_URL", fusion.DefaultBaseURL),
		FetchTimeout:    fetchTimeout,
		DayRange:        dayRange,
		RefreshInterval: refreshInterval,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		EngineAddr:      sharedcfg.EnvOrDefault("ENGINE_ADDR", ":8000"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "canopix-alert-snapshots"),
	}

	switch cfg.Source {
	case SourceFIRMS, SourceFusion, SourceStatic:
	default:
		return nil, fmt.Errorf("invalid SOURCE %q: must be one of firms, fusion, static", cfg.Source)
	}
	if err := validateBBox(cfg.FIRMSBBox); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

func parseDayRange() (int, error) {
	s := os.Getenv("DAY_RANGE")
	if s == "" {
		return domain.MinDayRange, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < domain.MinDayRange || n > domain.MaxDayRange {
		return 0, fmt.Errorf("invalid DAY_RANGE: must be %d-%d", domain.MinDayRange, domain.MaxDayRange)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", key)
	}
	return b, nil
}

// validateBBox checks the west,south,east,north area parameter.
func validateBBox(bbox string) error {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return errors.New("invalid FIRMS_BBOX: want west,south,east,north")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid FIRMS_BBOX: %q is not a number", p)
		}
		v[i] = f
	}
	if v[0] >= v[2] || v[1] >= v[3] {
		return errors.New("invalid FIRMS_BBOX: west must be less than east and south less than north")
	}
	return nil
}

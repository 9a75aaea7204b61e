package marketplace

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"collabBack/internal/money"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultMaxPageSize    = 200
	defaultMinWithdrawal  = money.Amount(10000)
	defaultIdempotencyTTL = 24 * time.Hour
	defaultSweepSchedule  = "*/5 * * * *"
	defaultEventExchange  = "collab.events"
	defaultMaxUploadMB    = 100
	defaultMaxBodyKB      = 64
	defaultMediaFolder    = "submissions"
)

// Config holds runtime configuration for the marketplace module.
type Config struct {
	RequestTimeout time.Duration
	MaxPageSize    int
	MinWithdrawal  money.Amount
	IdempotencyTTL time.Duration
	SweepSchedule  string
	EventExchange  string
	MaxUploadBytes int64
	MaxBodyBytes   int64
	MediaFolder    string
}

// LoadConfig reads marketplace configuration from environment variables and applies defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		RequestTimeout: defaultRequestTimeout,
		MaxPageSize:    defaultMaxPageSize,
		MinWithdrawal:  defaultMinWithdrawal,
		IdempotencyTTL: defaultIdempotencyTTL,
		SweepSchedule:  defaultSweepSchedule,
		EventExchange:  defaultEventExchange,
		MaxUploadBytes: defaultMaxUploadMB << 20,
		MaxBodyBytes:   defaultMaxBodyKB << 10,
		MediaFolder:    defaultMediaFolder,
	}

	if v, err := readIntEnv("MARKETPLACE_REQUEST_TIMEOUT_SECONDS"); err != nil {
		return Config{}, fmt.Errorf("parse MARKETPLACE_REQUEST_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		cfg.RequestTimeout = time.Duration(*v) * time.Second
	}

	if v, err := readIntEnv("MARKETPLACE_MAX_PAGE_SIZE"); err != nil {
		return Config{}, fmt.Errorf("parse MARKETPLACE_MAX_PAGE_SIZE: %w", err)
	} else if v != nil {
		cfg.MaxPageSize = *v
	}

	if v := os.Getenv("MARKETPLACE_MIN_WITHDRAWAL"); v != "" {
		amount, err := money.Parse(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse MARKETPLACE_MIN_WITHDRAWAL: %w", err)
		}
		cfg.MinWithdrawal = amount
	}

	if v, err := readIntEnv("MARKETPLACE_IDEMPOTENCY_TTL_SECONDS"); err != nil {
		return Config{}, fmt.Errorf("parse MARKETPLACE_IDEMPOTENCY_TTL_SECONDS: %w", err)
	} else if v != nil {
		cfg.IdempotencyTTL = time.Duration(*v) * time.Second
	}

	if v := os.Getenv("MARKETPLACE_SWEEP_SCHEDULE"); strings.TrimSpace(v) != "" {
		cfg.SweepSchedule = strings.TrimSpace(v)
	}

	if v := os.Getenv("MARKETPLACE_EVENT_EXCHANGE"); strings.TrimSpace(v) != "" {
		cfg.EventExchange = strings.TrimSpace(v)
	}

	if v, err := readIntEnv("MARKETPLACE_MAX_UPLOAD_MB"); err != nil {
		return Config{}, fmt.Errorf("parse MARKETPLACE_MAX_UPLOAD_MB: %w", err)
	} else if v != nil {
		cfg.MaxUploadBytes = int64(*v) << 20
	}

	if v, err := readIntEnv("MARKETPLACE_MAX_BODY_KB"); err != nil {
		return Config{}, fmt.Errorf("parse MARKETPLACE_MAX_BODY_KB: %w", err)
	} else if v != nil {
		cfg.MaxBodyBytes = int64(*v) << 10
	}

	if v := os.Getenv("MARKETPLACE_MEDIA_FOLDER"); strings.TrimSpace(v) != "" {
		cfg.MediaFolder = strings.Trim(strings.TrimSpace(v), "/")
	}

	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if cfg.MaxPageSize <= 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_MAX_PAGE_SIZE must be positive")
	}
	if cfg.MinWithdrawal < 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_MIN_WITHDRAWAL must not be negative")
	}
	if cfg.IdempotencyTTL <= 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_MAX_UPLOAD_MB must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MARKETPLACE_MAX_BODY_KB must be positive")
	}
	if cfg.SweepSchedule != "off" {
		if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
			return Config{}, fmt.Errorf("parse MARKETPLACE_SWEEP_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

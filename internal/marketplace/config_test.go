package marketplace

import (
	"testing"
	"time"

	"collabBack/internal/money"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected request timeout %s", cfg.RequestTimeout)
	}
	if cfg.MinWithdrawal != money.FromMajor(100) {
		t.Fatalf("unexpected minimum withdrawal %s", cfg.MinWithdrawal)
	}
	if cfg.SweepSchedule != defaultSweepSchedule {
		t.Fatalf("unexpected sweep schedule %q", cfg.SweepSchedule)
	}
	if cfg.MaxUploadBytes != 100<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxBodyBytes != 64<<10 {
		t.Fatalf("unexpected body limit %d", cfg.MaxBodyBytes)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MARKETPLACE_REQUEST_TIMEOUT_SECONDS", "12")
	t.Setenv("MARKETPLACE_MAX_PAGE_SIZE", "30")
	t.Setenv("MARKETPLACE_MIN_WITHDRAWAL", "250.50")
	t.Setenv("MARKETPLACE_IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("MARKETPLACE_SWEEP_SCHEDULE", "@hourly")
	t.Setenv("MARKETPLACE_EVENT_EXCHANGE", "events")
	t.Setenv("MARKETPLACE_MAX_UPLOAD_MB", "8")
	t.Setenv("MARKETPLACE_MEDIA_FOLDER", "/videos/")
	t.Setenv("MARKETPLACE_MAX_BODY_KB", "16")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RequestTimeout != 12*time.Second || cfg.MaxPageSize != 30 {
		t.Fatalf("unexpected http settings %+v", cfg)
	}
	if cfg.MinWithdrawal != money.Amount(25050) {
		t.Fatalf("unexpected minimum withdrawal %s", cfg.MinWithdrawal)
	}
	if cfg.IdempotencyTTL != time.Minute {
		t.Fatalf("unexpected idempotency ttl %s", cfg.IdempotencyTTL)
	}
	if cfg.SweepSchedule != "@hourly" || cfg.EventExchange != "events" {
		t.Fatalf("unexpected worker settings %+v", cfg)
	}
	if cfg.MaxUploadBytes != 8<<20 || cfg.MediaFolder != "videos" {
		t.Fatalf("unexpected media settings %+v", cfg)
	}
	if cfg.MaxBodyBytes != 16<<10 {
		t.Fatalf("unexpected body limit %d", cfg.MaxBodyBytes)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"MARKETPLACE_REQUEST_TIMEOUT_SECONDS": "0",
		"MARKETPLACE_MAX_PAGE_SIZE":           "abc",
		"MARKETPLACE_MIN_WITHDRAWAL":          "1.234",
		"MARKETPLACE_SWEEP_SCHEDULE":          "every minute",
		"MARKETPLACE_MAX_UPLOAD_MB":           "-1",
		"MARKETPLACE_MAX_BODY_KB":             "0",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", name, value)
			}
		})
	}
}

func TestDepsValidate(t *testing.T) {
	var deps *Deps
	if err := deps.Validate(); err == nil {
		t.Fatalf("expected error for nil deps")
	}
	if err := (&Deps{}).Validate(); err == nil {
		t.Fatalf("expected error for missing DB")
	}
}

package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "SMTP_PORT", "TOKEN_TTL", "NOTIFY_RECIPIENTS", "DEFAULT_QUESTION_COUNT", "SMTP_TLS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Mode != ModeOffline || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults: mode=%s addr=%s", cfg.Mode, cfg.HTTPAddr)
	}
	if cfg.SMTPPort != 587 || cfg.TokenTTL != 8*time.Hour || cfg.DefaultQuestionCount != 10 {
		t.Fatalf("unexpected numeric defaults: %+v", cfg)
	}
	if len(cfg.Recipients) != 0 || cfg.SMTPTLS {
		t.Fatalf("unexpected smtp defaults: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_TLS", "yes")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("NOTIFY_RECIPIENTS", " rspp@example.com, ,hr@example.com ")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example.com,https://b.example.com")
	t.Setenv("DEFAULT_QUESTION_COUNT", "not-a-number")

	cfg := FromEnv()
	if cfg.SMTPPort != 465 || !cfg.SMTPTLS || cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	want := []string{"rspp@example.com", "hr@example.com"}
	if !reflect.DeepEqual(cfg.Recipients, want) {
		t.Fatalf("recipients = %v, want %v", cfg.Recipients, want)
	}
	if got := cfg.CORSOrigins(); len(got) != 2 || got[0] != "https://a.example.com" {
		t.Fatalf("online origins = %v", got)
	}
	if cfg.DefaultQuestionCount != 10 {
		t.Fatalf("bad int should fall back to default, got %d", cfg.DefaultQuestionCount)
	}
}

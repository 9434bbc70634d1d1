package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SESSION_IDLE_TIMEOUT_SECONDS", "")
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("unexpected idle timeout %s", cfg.SessionIdleTimeout)
	}
	if cfg.AdminUsername != "admin" {
		t.Fatalf("unexpected admin username %q", cfg.AdminUsername)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	cfg := FromEnv()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected fallback max conns, got %d", cfg.DBMaxConns)
	}
}

func TestDefaultSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")
	got := FromEnv().DefaultSecrets()
	if len(got) != 2 || got[0] != "SESSION_SECRET" || got[1] != "ADMIN_PASSWORD" {
		t.Fatalf("expected both secrets reported, got %v", got)
	}

	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	if got := FromEnv().DefaultSecrets(); len(got) != 0 {
		t.Fatalf("expected no defaults in use, got %v", got)
	}
}

package main

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig()
	if cfg.Workers != 8 {
		t.Fatalf("expected default worker count 8, got %d", cfg.Workers)
	}
}

func TestEnvOrInt_UsesSetValue(t *testing.T) {
	t.Setenv("WEBHOOK_WORKER_TEST_INT", "16")
	if v := envOrInt("WEBHOOK_WORKER_TEST_INT", 8); v != 16 {
		t.Fatalf("expected 16, got %d", v)
	}
}

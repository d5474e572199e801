package main

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig()
	if cfg.Collection != "support_rag" {
		t.Fatalf("expected default collection support_rag, got %s", cfg.Collection)
	}
	if cfg.VectorDims != 768 {
		t.Fatalf("expected default vector dims 768, got %d", cfg.VectorDims)
	}
}

func TestEnvOrInt_FallsBackOnUnparsable(t *testing.T) {
	t.Setenv("INGEST_WORKER_TEST_INT", "nope")
	if v := envOrInt("INGEST_WORKER_TEST_INT", 42); v != 42 {
		t.Fatalf("expected fallback 42, got %d", v)
	}
}

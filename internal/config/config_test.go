package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS", "ENGAGEMENT_INTERVAL_MS", "ENGAGEMENT_HISTORY_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":5000" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.AI.Temperature != 0.7 || cfg.AI.TopP != 0.9 || cfg.AI.MaxTokens != 200 {
		t.Fatalf("unexpected generation defaults: %+v", cfg.AI)
	}
	if cfg.Engagement.Interval != 100*time.Millisecond {
		t.Fatalf("unexpected analysis interval: %s", cfg.Engagement.Interval)
	}
	if cfg.Engagement.HistoryLimit != 3 {
		t.Fatalf("unexpected history limit: %d", cfg.Engagement.HistoryLimit)
	}
}

func TestLoadServerAddrVariants(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestLoadRejectsInvalidOverrides(t *testing.T) {
	t.Setenv("ARK_TEMPERATURE", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid ARK_TEMPERATURE")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{"api key and model", AIConfig{APIKey: "key", Model: "m"}, true},
		{"ak/sk pair and model", AIConfig{AccessKey: "ak", SecretKey: "sk", Model: "m"}, true},
		{"missing model", AIConfig{APIKey: "key"}, false},
		{"missing credentials", AIConfig{Model: "m"}, false},
	}

	for _, tc := range cases {
		if got := tc.cfg.Enabled(); got != tc.want {
			t.Fatalf("%s: Enabled() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

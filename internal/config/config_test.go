package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "forty")
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_DUR", "90s")

	if got := envInt("X_INT", 1); got != 42 {
		t.Errorf("envInt = %d, want 42", got)
	}
	if got := envInt("X_BAD_INT", 7); got != 7 {
		t.Errorf("envInt fallback = %d, want 7", got)
	}
	if got := envBool("X_BOOL", false); !got {
		t.Errorf("envBool = false, want true")
	}
	if got := envDur("X_DUR", time.Second); got != 90*time.Second {
		t.Errorf("envDur = %s, want 90s", got)
	}
	if got := envStr("X_MISSING", "def"); got != "def" {
		t.Errorf("envStr = %q, want def", got)
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "10ms")

	cfg := LoadRateLimitConfig()
	if cfg.Requests != 1 {
		t.Errorf("Requests = %d, want 1", cfg.Requests)
	}
	if cfg.Window != time.Second {
		t.Errorf("Window = %s, want 1s", cfg.Window)
	}
	if cfg.KeyStrategy != "ip" {
		t.Errorf("KeyStrategy = %q, want ip", cfg.KeyStrategy)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitList = %v", got)
	}
}

func TestLoadPricingSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	body := "items:\n  - name: Green waste\n    description: Garden clippings\n    price: 25.5\n  - name: Furniture\n    price: 40\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	items, err := LoadPricingSeed(path)
	if err != nil {
		t.Fatalf("LoadPricingSeed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Name != "Green waste" || items[0].Price != 25.5 {
		t.Errorf("items[0] = %+v", items[0])
	}

	missing, err := LoadPricingSeed(filepath.Join(dir, "nope.yaml"))
	if err != nil || missing != nil {
		t.Errorf("missing file: items=%v err=%v", missing, err)
	}
}

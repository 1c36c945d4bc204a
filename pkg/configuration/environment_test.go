package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "AISLE_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "composables")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("AISLE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("AISLE_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestRateLimitOptions_Validate(t *testing.T) {
	valid := RateLimitOptions{Enabled: true, GlobalRPS: 100, Storage: "memory"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	negative := RateLimitOptions{GlobalRPS: -1, Storage: "memory"}
	if err := negative.Validate(); err == nil {
		t.Fatal("expected error for negative GlobalRPS")
	}

	badStorage := RateLimitOptions{GlobalRPS: 10, Storage: "etcd"}
	if err := badStorage.Validate(); err == nil {
		t.Fatal("expected error for unknown storage")
	}

	redisNoURL := RateLimitOptions{GlobalRPS: 10, Storage: "redis"}
	if err := redisNoURL.Validate(); err == nil {
		t.Fatal("expected error for redis storage without URL")
	}
}

func TestEscalationOptions_Validate(t *testing.T) {
	valid := EscalationOptions{Enabled: true, SLAWindow: 24 * time.Hour, SweepInterval: 5 * time.Minute, BatchSize: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	zeroWindow := EscalationOptions{SLAWindow: 0, SweepInterval: time.Minute, BatchSize: 1}
	if err := zeroWindow.Validate(); err == nil {
		t.Fatal("expected error for zero SLA window")
	}

	zeroInterval := EscalationOptions{SLAWindow: time.Hour, SweepInterval: 0, BatchSize: 1}
	if err := zeroInterval.Validate(); err == nil {
		t.Fatal("expected error for zero sweep interval")
	}

	zeroBatch := EscalationOptions{SLAWindow: time.Hour, SweepInterval: time.Minute, BatchSize: 0}
	if err := zeroBatch.Validate(); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

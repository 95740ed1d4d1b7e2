package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "LOG_LEVEL", "MAX_UPLOAD_BYTES", "SAMPLE_SEED", "SAMPLE_PRODUCTS",
	"SAMPLE_PURCHASE_ORDERS", "SNAPSHOT_CRON_SCHEDULE", "GOOGLE_SHEETS_CREDENTIALS_PATH",
	"GOOGLE_SHEET_DATABASE_ID", "REMOTE_FETCH_TIMEOUT", "MONGODB_URI", "MONGODB_DB_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8501" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Sample.Seed != 42 || cfg.Sample.Products != 50 || cfg.Sample.PurchaseOrders != 100 {
		t.Fatalf("sample = %+v", cfg.Sample)
	}
	if cfg.Remote.Timeout != 15*time.Second {
		t.Fatalf("timeout = %s", cfg.Remote.Timeout)
	}
	if cfg.Sheets.Enabled() || cfg.MongoDB.URI != "" {
		t.Fatalf("optional sources enabled by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables already present in the process
	// environment, so the keys set by clearEnv must be removed entirely.
	for _, key := range []string{"PORT", "SAMPLE_SEED"} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PORT=10000\nSAMPLE_SEED=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("PORT")
		_ = os.Unsetenv("SAMPLE_SEED")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "10000" || cfg.Sample.Seed != 7 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"PORT", "http", "PORT"},
		{"SAMPLE_SEED", "abc", "SAMPLE_SEED"},
		{"SAMPLE_PRODUCTS", "-1", "SAMPLE_PRODUCTS"},
		{"SNAPSHOT_CRON_SCHEDULE", "every day", "SNAPSHOT_CRON_SCHEDULE"},
		{"REMOTE_FETCH_TIMEOUT", "soon", "REMOTE_FETCH_TIMEOUT"},
		{"GOOGLE_SHEET_DATABASE_ID", "sheet-id", "GOOGLE_SHEETS_CREDENTIALS_PATH"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

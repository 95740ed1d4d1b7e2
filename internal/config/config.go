package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Sample   SampleConfig
	Snapshot SnapshotConfig
	Sheets   SheetsConfig
	Remote   RemoteConfig
	MongoDB  MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	LogLevel       string
	MaxUploadBytes int64
}

// SampleConfig controls the synthetic data generator.
type SampleConfig struct {
	Seed           int64
	Products       int
	PurchaseOrders int
}

// SnapshotConfig holds scheduler-related settings.
type SnapshotConfig struct {
	CronSchedule string
}

// SheetsConfig contains configuration required to read tables from Google
// Sheets. Both fields empty disables the source.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether a spreadsheet source is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// RemoteConfig configures fetching tabular files by URL.
type RemoteConfig struct {
	Timeout time.Duration
}

// MongoDBConfig holds settings for the snapshot archive. An empty URI
// disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	seed, err := getenvInt64("SAMPLE_SEED", 42)
	if err != nil {
		return nil, err
	}
	products, err := getenvInt64("SAMPLE_PRODUCTS", 50)
	if err != nil {
		return nil, err
	}
	purchaseOrders, err := getenvInt64("SAMPLE_PURCHASE_ORDERS", 100)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getenvInt64("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(getenvWithDefault("REMOTE_FETCH_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("REMOTE_FETCH_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("PORT", "8501"),
			LogLevel:       getenvWithDefault("LOG_LEVEL", "info"),
			MaxUploadBytes: maxUpload,
		},
		Sample: SampleConfig{
			Seed:           seed,
			Products:       int(products),
			PurchaseOrders: int(purchaseOrders),
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 6 * * *"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Remote: RemoteConfig{
			Timeout: timeout,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "partsdash"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	switch {
	case c.Sample.Products <= 0:
		return errors.New("SAMPLE_PRODUCTS must be positive")
	case c.Sample.PurchaseOrders <= 0:
		return errors.New("SAMPLE_PURCHASE_ORDERS must be positive")
	}

	if c.Snapshot.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Snapshot.CronSchedule); err != nil {
		return fmt.Errorf("SNAPSHOT_CRON_SCHEDULE is invalid: %w", err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Remote.Timeout <= 0 {
		return errors.New("REMOTE_FETCH_TIMEOUT must be positive")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

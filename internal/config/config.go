package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	ListenAddr string

	LogLevel  string
	LogFormat string

	// StoreBackend selects the slot-store implementation.
	StoreBackend string

	// Remote spreadsheet credentials (sheets backend).
	StoreAccountIdentity string
	StoreAccountKey      string
	StoreDocument        string

	// DatabaseURL is required for the postgres backend.
	DatabaseURL string

	// DefaultCapacity applies to slot rows with an empty capacity cell.
	DefaultCapacity int

	RetryAttempts int
	RetryBackoff  time.Duration
}

func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:           envDefault("LISTEN_ADDR", ":8080"),
		LogLevel:             envDefault("LOG_LEVEL", "info"),
		LogFormat:            envDefault("LOG_FORMAT", "text"),
		StoreBackend:         envDefault("STORE_BACKEND", BackendSheets),
		StoreAccountIdentity: strings.TrimSpace(os.Getenv("STORE_ACCOUNT_IDENTITY")),
		StoreAccountKey:      strings.TrimSpace(os.Getenv("STORE_ACCOUNT_KEY")),
		StoreDocument:        strings.TrimSpace(os.Getenv("STORE_DOCUMENT")),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	var err error
	if cfg.DefaultCapacity, err = envInt("SLOT_DEFAULT_CAPACITY", 10); err != nil {
		return cfg, err
	}
	if cfg.DefaultCapacity < 1 {
		return cfg, fmt.Errorf("SLOT_DEFAULT_CAPACITY must be >= 1")
	}
	if cfg.RetryAttempts, err = envInt("STORE_RETRY_ATTEMPTS", 3); err != nil {
		return cfg, err
	}
	if cfg.RetryAttempts < 1 {
		return cfg, fmt.Errorf("STORE_RETRY_ATTEMPTS must be >= 1")
	}
	backoffMS, err := envInt("STORE_RETRY_BACKOFF_MS", 200)
	if err != nil {
		return cfg, err
	}
	cfg.RetryBackoff = time.Duration(backoffMS) * time.Millisecond

	switch cfg.StoreBackend {
	case BackendSheets:
		if cfg.StoreAccountIdentity == "" {
			return cfg, fmt.Errorf("STORE_ACCOUNT_IDENTITY is required for the sheets backend")
		}
		if cfg.StoreAccountKey == "" {
			return cfg, fmt.Errorf("STORE_ACCOUNT_KEY is required for the sheets backend")
		}
		if cfg.StoreDocument == "" {
			return cfg, fmt.Errorf("STORE_DOCUMENT is required for the sheets backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
		// No external configuration; local smoke runs only.
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func envInt(k string, d int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return n, nil
}

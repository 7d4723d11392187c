package config

import (
	"fmt"
	"os"
	"time"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

func parseEnv(cfg *Config) error {
	if v, ok := lookupEnv("MICROBLOG_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookupEnv("MICROBLOG_SESSION_FILE"); ok && v != "" {
		cfg.SessionFile = v
	}
	if v, ok := lookupEnv("MICROBLOG_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MICROBLOG_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

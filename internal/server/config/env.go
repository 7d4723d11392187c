package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// loadDotEnv fills the process environment from ./.env without overriding
// variables that are already set. A missing file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays values from MICROBLOG_* variables. JWT_SECRET and
// DATABASE_URL are honoured as well and lose to their MICROBLOG_ twins.
func parseEnv(config *Config) error {
	loadDotEnv()

	envString(&config.SecretKey, "JWT_SECRET")
	envString(&config.DatabaseDSN, "DATABASE_URL")

	envString(&config.EndpointAddrHTTP, "MICROBLOG_HTTP_ADDR")
	envString(&config.EndpointAddrHealth, "MICROBLOG_HEALTH_ADDR")
	envString(&config.DatabaseDSN, "MICROBLOG_DATABASE_DSN")
	envString(&config.SecretKey, "MICROBLOG_SECRET_KEY")
	envString(&config.PasswordScheme, "MICROBLOG_PASSWORD_SCHEME")
	envString(&config.VaultSecret, "MICROBLOG_VAULT_SECRET")
	envString(&config.LogLevel, "MICROBLOG_LOG_LEVEL")
	envString(&config.S3RootUser, "MICROBLOG_S3_ROOT_USER")
	envString(&config.S3RootPassword, "MICROBLOG_S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "MICROBLOG_S3_BUCKET")
	envString(&config.S3Region, "MICROBLOG_S3_REGION")
	envString(&config.S3BaseEndpoint, "MICROBLOG_S3_BASE_ENDPOINT")

	if err := envDuration(&config.TokenValidityDuration, "MICROBLOG_TOKEN_VALIDITY"); err != nil {
		return err
	}
	if err := envDuration(&config.AvatarUploadURLValidity, "MICROBLOG_AVATAR_UPLOAD_URL_VALIDITY"); err != nil {
		return err
	}
	if v, ok := lookupEnv("MICROBLOG_STRICT_OWNERSHIP"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MICROBLOG_STRICT_OWNERSHIP: %w", err)
		}
		config.StrictOwnership = b
	}
	return nil
}

func envString(dst *string, key string) {
	if v, ok := lookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) error {
	v, ok := lookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":         "www.example:9000",
		"endpoint_addr_health":       "www.example:9001",
		"database_dsn":               "memory",
		"secret_key":                 "my_secret_key",
		"token_validity_duration":    "24h",
		"password_scheme":            "vault",
		"vault_secret":               "vault_key",
		"strict_ownership":           false,
		"log_level":                  "warn",
		"s3_root_user":               "user",
		"s3_root_password":           "password",
		"s3_bucket":                  "bucket",
		"s3_region":                  "region",
		"s3_base_endpoint":           "base_endpoint",
		"avatar_upload_url_validity": "1m",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{StrictOwnership: true}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9001", cfg.EndpointAddrHealth)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "vault", cfg.PasswordScheme)
		assert.Equal(t, "vault_key", cfg.VaultSecret)
		assert.False(t, cfg.StrictOwnership)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, time.Minute, cfg.AvatarUploadURLValidity)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "error"})

		cfg := &Config{EndpointAddrHTTP: ":8080", StrictOwnership: true}
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.True(t, cfg.StrictOwnership)
	})

	t.Run("comments and trailing commas are accepted", func(t *testing.T) {
		path := filepath.Join(dir, "commented.json")
		body := "{\n  // local development\n  \"secret_key\": \"dev\",\n  \"database_dsn\": \"memory\",\n}\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c", path}))
		assert.Equal(t, "dev", cfg.SecretKey)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJson(cfg, []string{"-a", "x"}))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let a
// file override only what it mentions. Comments and trailing commas are
// accepted.
type JsonConfig struct {
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	EndpointAddrHealth      *string         `json:"endpoint_addr_health"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SecretKey               *string         `json:"secret_key"`
	TokenValidityDuration   *timex.Duration `json:"token_validity_duration"`
	PasswordScheme          *string         `json:"password_scheme"`
	VaultSecret             *string         `json:"vault_secret"`
	StrictOwnership         *bool           `json:"strict_ownership"`
	LogLevel                *string         `json:"log_level"`
	S3RootUser              *string         `json:"s3_root_user"`
	S3RootPassword          *string         `json:"s3_root_password"`
	S3Bucket                *string         `json:"s3_bucket"`
	S3Region                *string         `json:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint"`
	AvatarUploadURLValidity *timex.Duration `json:"avatar_upload_url_validity"`
}

// parseJson overlays values from the file given by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(jsonc.ToJSON(raw), c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrHealth, c.EndpointAddrHealth)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordScheme, c.PasswordScheme)
	setString(&config.VaultSecret, c.VaultSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.AvatarUploadURLValidity != nil {
		config.AvatarUploadURLValidity = c.AvatarUploadURLValidity.Duration
	}
	if c.StrictOwnership != nil {
		config.StrictOwnership = *c.StrictOwnership
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

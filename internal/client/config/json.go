package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/microblog/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape of the CLI config file.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionFile    *string         `json:"session_file"`
}

func parseJson(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(raw), &jc); err != nil {
		return err
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	return nil
}

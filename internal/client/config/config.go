package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	SessionFile    string
}

// userHomeDir is a seam for tests.
var userHomeDir = os.UserHomeDir

// LoadDefaults populates c with defaults for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.SessionFile = filepath.Join(".microblog", "session.json")
	if home, err := userHomeDir(); err == nil && home != "" {
		c.SessionFile = filepath.Join(home, ".microblog", "session.json")
	}
}

// Validate reports settings the CLI cannot work with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid server url %q", c.ServerURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.SessionFile == "" {
		errs = append(errs, errors.New("session file is required"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and flags. Flags are read up to the first positional argument; that
// argument and everything after it are returned as the command line.
func LoadConfig(args []string) (*Config, []string, error) {
	var (
		configPath  string
		serverURL   string
		timeoutSecs int
		sessionFile string
	)

	fs := flag.NewFlagSet("microblog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&configPath, "c", "", "path to config file (short)")
	fs.StringVar(&configPath, "config", "", "path to config file")
	fs.StringVar(&serverURL, "a", "", "base URL of the HTTP API")
	fs.IntVar(&timeoutSecs, "t", 0, "request timeout (in seconds)")
	fs.StringVar(&sessionFile, "f", "", "session file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("flags: %w", err)
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if configPath != "" {
		if err := parseJson(cfg, configPath); err != nil {
			return nil, nil, fmt.Errorf("config file: %w", err)
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("environment: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.ServerURL = serverURL
		case "t":
			cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second
		case "f":
			cfg.SessionFile = sessionFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

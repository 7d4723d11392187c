package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address; empty disables it
//	-d string   PostgreSQL DSN, or "memory"
//	-s string   token HMAC secret key
//	-t int      token validity, minutes (0 = no expiry)
//	-p string   password scheme: bcrypt or vault
//	-k string   vault secret
//	-o bool     strict ownership of mutations (use -o=false to disable)
//	-l string   log level
//	-u string   S3 root user
//	-w string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only these flags are picked out of args (see flagx.FilterArgs), so -c and
// flags of other components do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"a", "g", "d", "s", "t", "p", "k", "o", "l", "u", "w", "b", "r", "e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrHealth, "g", config.EndpointAddrHealth, "address and port of the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes, 0 = no expiry)")
	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password scheme (bcrypt|vault)")
	fs.StringVar(&config.VaultSecret, "k", config.VaultSecret, "vault secret")
	fs.BoolVar(&config.StrictOwnership, "o", config.StrictOwnership, "bind mutations to the token subject")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "w", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only an explicit -t overrides; the default rendering drops sub-minute values.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	return nil
}

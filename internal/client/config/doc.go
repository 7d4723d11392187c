// Package config loads runtime configuration for the microblog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (comments allowed).
//  3. Environment: MICROBLOG_SERVER_URL, MICROBLOG_SESSION_FILE,
//     MICROBLOG_REQUEST_TIMEOUT.
//  4. Command-line flags given before the command name.
//
// Supported flags
//
//	-a string   base URL of the microblog HTTP API
//	-t int      request timeout (seconds)
//	-f string   session file holding the bearer token
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "session_file": "/home/me/.microblog/session.json"
//	}
package config

// Package cli is the microblog command-line client.
//
// A command given on the command line runs once and exits; with no command
// an interactive prompt is started. The bearer token from login is kept in a
// session file so later invocations stay logged in.
//
// Commands: register, login, logout, whoami, post, list, like, unlike,
// delete, likes, can-like, avatar.
package cli

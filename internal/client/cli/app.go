package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/microblog/internal/client/client"
	"github.com/dmitrijs2005/microblog/internal/client/config"
)

// ErrUsage is returned for a malformed command line.
var ErrUsage = errors.New("usage")

type App struct {
	config   *config.Config
	api      *client.Client
	sessions sessionStore
	session  *Session
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp builds the client and restores a saved session for the same server.
func NewApp(c *config.Config, in io.Reader, out io.Writer, opts ...client.Option) (*App, error) {
	api, err := client.New(c.ServerURL, c.RequestTimeout, opts...)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   c,
		api:      api,
		sessions: sessionStore{path: c.SessionFile},
		reader:   bufio.NewReader(in),
		out:      out,
	}

	sess, err := a.sessions.load()
	if err != nil {
		return nil, err
	}
	if sess != nil && sess.ServerURL == c.ServerURL {
		a.session = sess
		api.SetToken(sess.Token)
	}
	return a, nil
}

// Run executes args as one command, or starts the prompt when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.Root(ctx)
	}
	return a.dispatch(ctx, args[0], args[1:])
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.Token != ""
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// dispatch runs one command.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "post":
		return a.post(ctx, args)
	case "list", "l":
		return a.list(ctx)
	case "like":
		return a.like(ctx, args)
	case "unlike":
		return a.unlike(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "likes":
		return a.likes(ctx, args)
	case "can-like":
		return a.canLike(ctx, args)
	case "avatar":
		return a.avatar(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q (try help)", ErrUsage, cmd)
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		a.printf("Available commands: post [title], (l)ist, like <post>, unlike <post>, delete <post>, " +
			"likes <post>, can-like <post> [user], avatar <file>, whoami, logout, exit\n")
		return
	}
	a.printf("Available commands: register, login, (l)ist, likes <post>, can-like <post> <user>, exit\n")
}

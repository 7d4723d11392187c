// Package server wires configuration, storage, services and the network
// endpoints together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/microblog/internal/cryptox"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/httpserver"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"golang.org/x/crypto/bcrypt"

	gs "github.com/dmitrijs2005/microblog/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *httpserver.Server
	health *gs.HealthServer
}

// openRepositories is a seam for tests.
var openRepositories = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, c.DatabaseDSN)
}

func newProtector(c *config.Config) (cryptox.PasswordProtector, error) {
	switch c.PasswordScheme {
	case config.PasswordSchemeVault:
		v, err := cryptox.NewVault(c.VaultSecret)
		if err != nil {
			return nil, err
		}
		return cryptox.NewVaultProtector(v), nil
	case config.PasswordSchemeBcrypt, "":
		return cryptox.NewBcryptProtector(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", c.PasswordScheme)
	}
}

// NewApp opens storage, applies migrations and builds the servers. logOut
// receives JSON log lines.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	tokens, err := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	protector, err := newProtector(c)
	if err != nil {
		return nil, fmt.Errorf("password protector: %w", err)
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	users := services.NewUserService(repos, protector, tokens, logger)
	posts := services.NewPostService(repos, logger)
	likes := services.NewLikeService(repos, logger)

	var avatars httpserver.AvatarIssuer
	if svc := services.NewAvatarService(c); svc != nil {
		avatars = svc
	} else {
		logger.Warn(ctx, "S3 bucket or endpoint not configured, avatar uploads disabled")
	}

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http: httpserver.NewServer(httpserver.Deps{
			Tokens:          tokens,
			Users:           users,
			Posts:           posts,
			Likes:           likes,
			Avatars:         avatars,
			Logger:          logger,
			StrictOwnership: c.StrictOwnership,
		}),
	}
	if c.EndpointAddrHealth != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrHealth, logger)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// Storage is closed before Run returns.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "closing storage", "error", err)
		}
	}()

	listen, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		app.logger.Error(ctx, err.Error())
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancelFunc()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Serve(ctx, listen); err != nil {
			fail(err)
		}
	}()

	if app.health != nil {
		app.health.SetServing(true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.health.Run(ctx); err != nil {
				fail(err)
			}
		}()
	}

	<-ctx.Done()
	if app.health != nil {
		app.health.SetServing(false)
	}
	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return firstErr
}

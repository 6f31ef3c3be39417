// Package server wires the application together: configuration, logging,
// the storage backend, the authentication core, and the HTTP endpoint, plus
// graceful shutdown on OS signals.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/microauth/internal/logging"
	"github.com/dmitrijs2005/microauth/internal/server/auth"
	"github.com/dmitrijs2005/microauth/internal/server/config"
	"github.com/dmitrijs2005/microauth/internal/server/httpapi"
	"github.com/dmitrijs2005/microauth/internal/server/password"
	"github.com/dmitrijs2005/microauth/internal/server/storage"
	"github.com/dmitrijs2005/microauth/internal/server/users"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
}

// NewApp builds the application from cfg. The in-memory backend is the
// reference storage; a durable backend plugs in by swapping the
// storage.Backend passed to the user service.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	backend := storage.NewMemory()
	hasher := password.NewHasher(cfg.BcryptCost)
	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenTTL)

	us := users.NewService(backend, hasher, issuer)
	hs := httpapi.NewServer(cfg.Addr, logger, us, cfg.CORSAllowOrigin)

	return &App{config: cfg, logger: logger, httpServer: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}

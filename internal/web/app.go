// Package web assembles and runs the MedCaseGen web frontend.
package web

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/dmitrijs2005/medcasegen/internal/netx"
	"github.com/dmitrijs2005/medcasegen/internal/web/config"
	"github.com/dmitrijs2005/medcasegen/internal/web/flash"
	"github.com/dmitrijs2005/medcasegen/internal/web/handlers"
	"github.com/dmitrijs2005/medcasegen/internal/web/views"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	handlers *handlers.Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel).With("app", "web")

	// the base store is never used: handlers bind each request to its cookies
	api, err := client.NewHTTPClient(c.APIBaseURL, tokenstore.NewMemoryStore(logger),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("api client init error: %w", err)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates init error: %w", err)
	}

	secret := c.SessionSecret
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("session secret error: %w", err)
		}
		logger.Warn(context.Background(), "no session secret configured, notifications will not survive a restart")
	}

	fl := flash.NewStore([]byte(secret), !c.IsDevelopment())
	h := handlers.New(c, api, renderer, fl, logger)

	return &App{config: c, logger: logger, handlers: h}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := netx.NewServer(app.config.ListenAddr, app.handlers.Routes())
	if err := netx.Serve(ctx, srv, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves the frontend until ctx is cancelled or the process is signalled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "api", app.config.APIBaseURL, "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

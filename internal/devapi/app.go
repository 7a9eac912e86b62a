// Package devapi runs a local stand-in for the MedCaseGen API (accounts,
// clinical cases and simulations) so the web frontend and the CLI can be
// exercised without the real backend.
package devapi

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/config"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/dataset"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/httpapi"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/migrations"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/cases"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/simulations"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/tokens"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/users"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/services"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/dmitrijs2005/medcasegen/internal/netx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	service *services.AuthService
	cases   *services.CaseService
	sims    *services.SimulationService
	closers []func() error
}

type repositories struct {
	users       users.Repository
	cases       cases.Repository
	simulations simulations.Repository
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel).With("app", "devapi")
	app := &App{config: c, logger: logger}

	repos, err := app.initStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	rdb, err := app.initRedis(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.service = services.NewAuthService(repos.users, tokens.NewRedisStore(rdb, ""), c, logger)
	app.cases = services.NewCaseService(repos.cases, logger)
	app.sims = services.NewSimulationService(repos.simulations, repos.cases, services.NewScriptedResponder(), logger)

	if c.AdminEmail != "" && c.AdminPassword != "" {
		if err := app.service.SeedAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
			app.Close()
			return nil, err
		}
	}

	if c.CasesFile != "" {
		if err := app.importCases(ctx, c.CasesFile); err != nil {
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) initStorage(ctx context.Context) (*repositories, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, data is kept in memory")
		return &repositories{
			users:       users.NewMemoryRepository(),
			cases:       cases.NewMemoryRepository(),
			simulations: simulations.NewMemoryRepository(),
		}, nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return &repositories{
		users:       users.NewPostgresRepository(db),
		cases:       cases.NewPostgresRepository(db),
		simulations: simulations.NewPostgresRepository(db),
	}, nil
}

// importCases loads a dataset file; cases already present are skipped.
func (app *App) importCases(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cases file error: %w", err)
	}
	defer f.Close()

	records, err := dataset.Read(f)
	if err != nil {
		return fmt.Errorf("cases file error: %w", err)
	}
	if _, err := app.cases.Import(ctx, records); err != nil {
		return fmt.Errorf("cases import error: %w", err)
	}
	return nil
}

func (app *App) initRedis(ctx context.Context) (redis.UniversalClient, error) {
	addr := app.config.RedisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("embedded redis error: %w", err)
		}
		app.closers = append(app.closers, func() error { mr.Close(); return nil })
		addr = mr.Addr()
		app.logger.Warn(ctx, "no redis configured, using an embedded instance", "address", addr)
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	app.closers = append(app.closers, rdb.Close)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	return rdb, nil
}

// Close releases the database, Redis client and embedded Redis, newest first.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
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
	srv := netx.NewServer(app.config.ListenAddr, httpapi.NewServer(app.service, app.cases, app.sims, app.logger).Routes())
	if err := netx.Serve(ctx, srv, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

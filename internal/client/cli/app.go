package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/client/config"
	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/filex"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

type App struct {
	config *config.Config
	db     *sql.DB
	store  tokenstore.Store
	api    client.Client
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer // prompts only, messages go through printlnFn
	email  string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := tokenstore.NewMetadataStore(db, common.TokenTTL, logger)

	// no navigator: after a 401 the prompt simply shows the user as logged out
	api, err := client.NewHTTPClient(c.APIBaseURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: c,
		db:     db,
		store:  store,
		api:    api,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.store.Read(ctx)
	return ok
}

func (a *App) status(ctx context.Context) string {
	switch {
	case !a.isLoggedIn(ctx):
		return "(déconnecté)"
	case a.email != "":
		return "(" + a.email + ")"
	default:
		return "(connecté)"
	}
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "close database", "error", err)
		}
	}()

	printlnFn(fmt.Sprintf("Bienvenue sur %s (tapez 'help' pour la liste des commandes)", common.AppName))
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

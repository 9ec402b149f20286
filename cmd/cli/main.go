package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/embauco/internal/buildinfo"
	"github.com/dmitrijs2005/embauco/internal/client/cli"
	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/config"
	"github.com/dmitrijs2005/embauco/internal/client/services"
	"github.com/dmitrijs2005/embauco/internal/client/session"
	"github.com/dmitrijs2005/embauco/internal/client/storage"
	"github.com/dmitrijs2005/embauco/internal/filex"
	"github.com/dmitrijs2005/embauco/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// the first signal cancels ctx; a second one gets the default behavior
	context.AfterFunc(ctx, stop)

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stderr, cfg.LogLevel)

	var store session.Store
	if cfg.Ephemeral {
		store = session.NewMemoryStore()
	} else {
		if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
			return err
		}
		db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.DatabasePath, err)
		}
		defer db.Close()
		store = session.NewSQLiteStore(db)
	}

	sess := session.NewManager(store, logger)
	defer sess.Close()

	gw := client.NewHTTPClient(client.Config{
		BaseURL:   cfg.ServerURL,
		Timeout:   cfg.RequestTimeout,
		UserAgent: buildinfo.UserAgent(),
	}, sess, &http.Client{}, logger)

	if err := gw.Ping(ctx); err != nil {
		logger.Warn(ctx, "server unreachable", "url", cfg.ServerURL, "error", err)
	}

	if err := sess.Initialize(ctx, services.NewTokenValidator(gw, cfg.ValidatePath)); err != nil {
		return err
	}

	app := cli.NewApp(cli.Deps{
		Session:   sess,
		Store:     store,
		Auth:      services.NewAuthService(gw, sess, logger),
		Expenses:  services.NewExpenseService(gw),
		Dashboard: services.NewDashboardService(gw),
		Charts:    services.NewChartService(gw),
		Logger:    logger,
	}, os.Stdin, os.Stdout)

	return app.Run(ctx)
}

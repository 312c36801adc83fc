package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
	"github.com/namsral/flag"
	"golang.org/x/sync/errgroup"

	"github.com/daniilsolovey/blogicum/config"
	"github.com/daniilsolovey/blogicum/internal/app"
	"github.com/daniilsolovey/blogicum/internal/db"
)

var (
	flConfig  = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug   = flag.Bool("debug", false, "enable debug mode")
	flMigrate = flag.Bool("migrate", false, "apply database migrations before start")
	cfg       config.Config
	lg        *slog.Logger
)

func main() {
	flag.Parse()

	lg = newLogger(*flDebug)

	_, err := toml.DecodeFile(*flConfig, &cfg)
	exitOnError(err)
	exitOnError(cfg.Normalize())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *flMigrate {
		exitOnError(db.Migrate(ctx, cfg.Database.URL))
		lg.Info("migrations applied")
	}

	opts, err := cfg.PGOptions()
	exitOnError(err)

	dbc := pg.Connect(opts)
	if err := dbc.Ping(ctx); err != nil {
		dbc.Close()
		exitOnError(err)
	}
	defer dbc.Close()

	service, err := app.New(ctx, &cfg, dbc, lg)
	exitOnError(err)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("service stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return service.GracefulShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}

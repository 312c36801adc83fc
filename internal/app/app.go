package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/daniilsolovey/blogicum/config"
	"github.com/daniilsolovey/blogicum/internal/auth"
	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/daniilsolovey/blogicum/internal/db"
	"github.com/daniilsolovey/blogicum/internal/media"
	"github.com/daniilsolovey/blogicum/internal/web"
	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
)

type App struct {
	DB     *db.Repository
	Logger *slog.Logger
	Echo   *echo.Echo
	Config *config.Config
}

// New wires the repository, media storage, sessions and the web handler together.
func New(ctx context.Context, cfg *config.Config, dbConnect *pg.DB, logger *slog.Logger) (*App, error) {
	if cfg.Database.LogQueries {
		dbConnect.AddQueryHook(db.NewQueryHook(logger))
	}

	repo := db.New(dbConnect)

	storage, servedDir, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	uploader := media.NewUploader(storage, cfg.App.MaxImageSide)

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return nil, err
	}

	manager := blog.NewManager(repo, uploader, logger, blog.WithPageSize(cfg.App.PageSize))
	handler := web.NewHandler(manager, auth.NewTokens(cfg.Session.Secret, ttl), uploader, repo, logger, web.Options{
		SessionCookie: cfg.Session.CookieName,
		SecureCookie:  cfg.Session.Secure,
		MediaDir:      servedDir,
		MediaPrefix:   cfg.Media.URLPrefix,
		BodyLimit:     cfg.App.MaxBodySize,
	})

	e, err := handler.RegisterRoutes()
	if err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return &App{
		DB:     repo,
		Logger: logger,
		Echo:   e,
		Config: cfg,
	}, nil
}

// newStorage returns the configured media storage and, for the local driver, the directory to serve.
func newStorage(ctx context.Context, cfg *config.Config) (media.Storage, string, error) {
	switch cfg.Media.Driver {
	case config.MediaDriverMinIO:
		s, err := media.NewMinIOStorage(ctx, cfg.Media.MinIO)
		if err != nil {
			return nil, "", fmt.Errorf("failed to init minio storage: %w", err)
		}
		return s, "", nil
	default:
		s, err := media.NewLocalStorage(cfg.Media.Dir, cfg.Media.URLPrefix)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	}
}

func (a *App) Run(ctx context.Context) error {
	addr := net.JoinHostPort(a.Config.App.Host, strconv.Itoa(a.Config.App.Port))
	a.Logger.InfoContext(ctx, "service started", "addr", addr)

	err := a.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

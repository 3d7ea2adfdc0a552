package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/migrations"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/repository/postgres"
	"taskManager/internal/service"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Storage is what the services need from a repository implementation.
type Storage interface {
	service.TaskRepository
	service.UserRepository
	Close()
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    http.Handler
	storage   Storage
	shutdowns []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	storage, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	a.storage = storage
	a.shutdowns = append(a.shutdowns, storage.Close)

	tokens := service.NewTokenManager(a.config.Auth.JWTSecret, a.config.Auth.TokenTTL)
	passwords := service.NewPasswordHasher(a.config.Auth.BcryptCost)

	authService := service.NewAuthService(storage, tokens, passwords)
	taskService := service.NewTaskService(storage)
	userService := service.NewUserService(storage)

	router := handlers.NewRouter(
		handlers.NewTaskHandler(taskService),
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		authService,
		handlers.RouterOptions{
			RequestTimeout: a.config.Server.RequestTimeout,
			RateLimitRPM:   a.config.Server.RateLimitRPM,
			CORSOrigins:    a.config.Server.CORSOrigins,
		},
	)
	a.router = otelhttp.NewHandler(router, "taskmanager")

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initStorage(ctx context.Context) (Storage, error) {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("App: using in-memory repository")
		return inmemory.New(), nil
	case config.RepositoryPostgres:
		db := a.config.Database
		storage, err := postgres.New(ctx, db.URL, postgres.Options{
			MaxConns:       db.MaxConnections,
			MinConns:       db.MinConnections,
			IdleTimeout:    db.IdleTimeout,
			AcquireTimeout: db.AcquireTimeout,
			ConnectRetries: db.ConnectRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}

		sqlDB := storage.DB()
		defer sqlDB.Close()
		if err := migrations.CheckVersion(ctx, sqlDB, migrations.LatestVersion); err != nil {
			storage.Close()
			return nil, fmt.Errorf("check schema: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then drains the server and runs the shutdown hooks.
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

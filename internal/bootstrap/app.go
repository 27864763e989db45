package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/employee_crud/internal/config"
	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/export"
	"github.com/locvowork/employee_crud/internal/handler"
	"github.com/locvowork/employee_crud/internal/logger"
	"github.com/locvowork/employee_crud/internal/metrics"
	appmw "github.com/locvowork/employee_crud/internal/middleware"
	"github.com/locvowork/employee_crud/internal/repository"
	"github.com/locvowork/employee_crud/internal/service"
)

const metricsPath = "/metrics"

type App struct {
	Echo    *echo.Echo
	DB      *database.DB
	Config  *config.Config
	Service service.EmployeeService
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = appmw.ErrorHandler

	return &App{Echo: e}
}

// Initialize loads the configuration from the environment and wires the app.
func (a *App) Initialize(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return a.InitializeWithConfig(ctx, cfg)
}

// InitializeWithConfig wires the app from an already loaded configuration.
func (a *App) InitializeWithConfig(ctx context.Context, cfg *config.Config) error {
	a.Config = cfg

	logger.InitLogging(logger.Options{
		Level:    cfg.Log.Level,
		FilePath: cfg.Log.FilePath,
		Pretty:   cfg.IsLocal(),
	})
	logger.InfoLog(ctx, "configuration loaded, env=%s", cfg.Primary.Env)

	dbConfig := cfg.Database.Connection()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dbConfig, logger.Get()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db, err := database.New(ctx, dbConfig, logger.Get())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	// Initialize dependencies
	empRepo := repository.NewEmployeeRepository(db.DB)
	a.Service = service.NewEmployeeService(empRepo)
	empHandler := handler.NewEmployeeHandler(a.Service, export.NewExporter(export.DefaultLayout()))
	healthHandler := handler.NewHealthHandler(db)

	a.RegisterMiddlewares()
	a.RegisterRoutes(empHandler, healthHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(appmw.RequestID())
	a.Echo.Use(appmw.ContextLogger())
	a.Echo.Use(appmw.RequestLogger())
	a.Echo.Use(appmw.Metrics(metricsPath))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, healthHandler *handler.HealthHandler) {
	a.Echo.GET("/health", healthHandler.CheckHealth)
	a.Echo.GET(metricsPath, echo.WrapHandler(metrics.Handler()))

	empHandler.Register(a.Echo.Group(a.Config.Server.BasePath))
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests and
// closes the database pool.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Echo,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Get().Info().
			Str("port", a.Config.Server.Port).
			Str("env", a.Config.Primary.Env).
			Msg("starting server")
		if err := a.Echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			_ = a.DB.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Get().Info().Msg("shutdown signal received")
	}

	return a.Shutdown(a.Config.Server.ShutdownTimeout)
}

// Shutdown stops the HTTP server, then closes the database pool.
func (a *App) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	logger.Get().Info().Msg("server stopped")
	return nil
}

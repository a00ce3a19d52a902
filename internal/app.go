// internal/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	router "mapayl/internal/api"
	"mapayl/internal/api/handler"
	"mapayl/internal/config"
	"mapayl/internal/metrics"
	"mapayl/internal/repository"
	"mapayl/internal/repository/postgres"
	"mapayl/internal/service"
	"mapayl/internal/util"
	"mapayl/migrations"
	"mapayl/pkg/crypto"
	"mapayl/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *zap.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository repository.UserRepository

	// Services
	AccountService service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Env)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", zap.String("env", cfg.Env))

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, app.DB); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.Logger.Info("Database migrations applied.")
	}

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.AccountService = service.NewAccountService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		crypto.NewPasswordHasher(cfg.BcryptCost),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger.Named("accounts"),
	)
	metrics.Init()
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	userHandler := handler.NewUserHandler(app.AccountService, app.Logger)
	pageHandler := handler.NewPageHandler(app.Logger)
	app.HTTPHandler = router.NewRouter(userHandler, pageHandler, cfg.AllowedOrigins, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", zap.Error(err))
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	_ = app.Logger.Sync()
	return nil
}

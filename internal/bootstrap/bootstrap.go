package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/oussamab/maktaba/docs" // registers the generated swagger spec
	appControllers "github.com/oussamab/maktaba/internal/app/controllers"
	appMigrations "github.com/oussamab/maktaba/internal/app/migrations"
	appRepos "github.com/oussamab/maktaba/internal/app/repositories"
	appRoutes "github.com/oussamab/maktaba/internal/app/routes"
	appServices "github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/config"
	"github.com/oussamab/maktaba/internal/db"
	appMiddleware "github.com/oussamab/maktaba/internal/middleware"
	pkgAuth "github.com/oussamab/maktaba/internal/pkg/auth"
	"github.com/oussamab/maktaba/internal/pkg/filestorage"
	"github.com/oussamab/maktaba/internal/pkg/helpers"
	"github.com/oussamab/maktaba/internal/pkg/logger"
	"github.com/oussamab/maktaba/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	BookService        *appServices.BookService
	BorrowService      *appServices.BorrowService
	CategoryService    *appServices.CategoryService
	AuthorService      *appServices.AuthorService
	PresenceService    *appServices.PresenceService
	BookController     *appControllers.BookController
	BorrowController   *appControllers.BorrowController
	CategoryController *appControllers.CategoryController
	AuthorController   *appControllers.AuthorController
	PresenceController *appControllers.PresenceController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Logger             zerolog.Logger
	FileStorage        *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// A .env file is optional; it feeds the env override layer
	_ = godotenv.Load()

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// A partial seed is not fatal
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// File storage base URL must match the static file serving path
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.BookService = appServices.NewBookService(
		deps.Repos.BookRepository,
		deps.Repos.CategoryRepository,
		deps.Repos.AuthorRepository,
		deps.Repos.BorrowRepository,
		deps.Repos.SearchHistoryRepository,
	)
	deps.BorrowService = appServices.NewBorrowService(
		deps.Repos.PresenceRepository,
		deps.Repos.BookRepository,
		deps.Repos.BorrowRepository,
	)
	deps.CategoryService = appServices.NewCategoryService(
		deps.Repos.CategoryRepository,
		deps.Repos.BookRepository,
		deps.Repos.AuthorRepository,
	)
	deps.AuthorService = appServices.NewAuthorService(
		deps.Repos.AuthorRepository,
		deps.Repos.BookRepository,
	)
	deps.PresenceService = appServices.NewPresenceService(deps.Repos.PresenceRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.BookController = appControllers.NewBookController(deps.BookService, deps.FileStorage)
	deps.BorrowController = appControllers.NewBorrowController(deps.BorrowService)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService)
	deps.AuthorController = appControllers.NewAuthorController(deps.AuthorService)
	deps.PresenceController = appControllers.NewPresenceController(deps.PresenceService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.BookController,
		deps.BorrowController,
		deps.CategoryController,
		deps.AuthorController,
		deps.PresenceController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/labdesk/internal/app/auth"
	appControllers "github.com/yigit/labdesk/internal/app/controllers"
	appMigrations "github.com/yigit/labdesk/internal/app/migrations"
	appRepos "github.com/yigit/labdesk/internal/app/repositories"
	appRoutes "github.com/yigit/labdesk/internal/app/routes"
	appServices "github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/config"
	"github.com/yigit/labdesk/internal/db"
	appMiddleware "github.com/yigit/labdesk/internal/middleware"
	pkgAuth "github.com/yigit/labdesk/internal/pkg/auth"
	"github.com/yigit/labdesk/internal/pkg/email"
	"github.com/yigit/labdesk/internal/pkg/logger"
	"github.com/yigit/labdesk/internal/pkg/roster"
	"github.com/yigit/labdesk/internal/pkg/websocket"
	"github.com/yigit/labdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	RequestService      appServices.RequestService
	DutyService         appServices.DutyService
	TAService           appServices.TAService
	CourseService       appServices.CourseService
	LabService          appServices.LabService
	AvailabilityService appServices.AvailabilityService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	Hub                 *websocket.Hub
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: logger.ParseFormat(cfg.Logging.Format),
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	loc := cfg.Location()
	now := appServices.Clock(time.Now)

	deps.Repos = appRepos.NewRepositories(dbPool)
	repos := deps.Repos

	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	mailer := email.NewService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger.Component("email"))
	rosterClient := roster.NewClient(cfg.Roster.URL, cfg.RosterTimeout(), logger.Component("roster"))

	deps.AuthzService = appAuth.NewAuthorizationService(repos.StudentRepository, repos.TARepository)

	deps.DutyService = appServices.NewDutyService(
		repos.TARepository,
		repos.CourseRepository,
		repos.OfficeHourRepository,
		deps.AuthzService,
		deps.Hub,
		appServices.DutySettings{Location: loc, OffDutyBuffer: cfg.OffDutyBuffer()},
		now,
		logger.Component("duty"),
	)
	deps.RequestService = appServices.NewRequestService(
		repos.RequestRepository,
		repos.StudentRepository,
		repos.CourseRepository,
		repos.UserRepository,
		repos.OfficeHourRepository,
		deps.AuthzService,
		deps.Hub,
		appServices.QueueSettings{Horizon: cfg.QueueHorizon(), Location: loc},
		now,
		logger.Component("requests"),
	)
	deps.TAService = appServices.NewTAService(
		repos.UserRepository,
		repos.CourseRepository,
		repos.TARepository,
		rosterClient,
		mailer,
		logger.Component("tas"),
	)
	deps.AuthService = appServices.NewAuthService(
		repos.UserRepository,
		repos.StudentRepository,
		repos.TARepository,
		repos.CourseRepository,
		deps.DutyService,
		deps.JWTService,
		logger.Component("auth"),
	)
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository)
	deps.LabService = appServices.NewLabService(repos.LabRepository, loc, now)
	deps.AvailabilityService = appServices.NewAvailabilityService(repos.AvailabilityRepository, now, logger.Component("availability"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Telemetry.ReporterKey)
	if cfg.Telemetry.ReporterKey == "" {
		lgr.Warn().Msg("Telemetry reporter key is empty, availability reports will be rejected")
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Request:      appControllers.NewRequestController(deps.RequestService, loc, lgr),
		Duty:         appControllers.NewDutyController(deps.DutyService, lgr),
		TA:           appControllers.NewTAController(deps.TAService, deps.CourseService, lgr),
		Course:       appControllers.NewCourseController(deps.CourseService),
		Lab:          appControllers.NewLabController(deps.LabService),
		Availability: appControllers.NewAvailabilityController(deps.AvailabilityService),
		Websocket:    websocket.NewHandler(deps.Hub, logger.Component("websocket")),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.SetupValidator(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.ErrorHandler(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success", "viewers": deps.Hub.Count()})
	})

	return router, nil
}

package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/studbuds/internal/app/auth"
	appControllers "github.com/yigit/studbuds/internal/app/controllers"
	appMigrations "github.com/yigit/studbuds/internal/app/migrations"
	appRepos "github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/app/repositories/mongodb"
	"github.com/yigit/studbuds/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/studbuds/internal/app/routes"
	appServices "github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/config"
	"github.com/yigit/studbuds/internal/db"
	appMiddleware "github.com/yigit/studbuds/internal/middleware"
	pkgAuth "github.com/yigit/studbuds/internal/pkg/auth"
	"github.com/yigit/studbuds/internal/pkg/filestorage"
	"github.com/yigit/studbuds/internal/pkg/logger"
	"github.com/yigit/studbuds/internal/pkg/websocket"
	"github.com/yigit/studbuds/internal/seed"
)

// Version is reported to Rollbar; overridden at build time with -ldflags
var Version = "dev"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store               appRepos.Store
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	FileStorage         *filestorage.LocalStorage
	Hub                 *websocket.Hub
	UserService         appServices.UserService
	ClassService        appServices.ClassService
	PostService         appServices.PostService
	NoteService         appServices.NoteService
	StudySessionService appServices.StudySessionService
	StudyGroupService   appServices.StudyGroupService
	MessageService      appServices.MessageService
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Controllers         *appRoutes.Controllers
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger and error reporting.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	logger.ConfigureRollbar(cfg.Rollbar.Token, cfg.Rollbar.Environment, Version)

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore connects the configured backend. Postgres schemas are migrated first.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if err := MigrateUp(cfg, lgr); err != nil {
			return nil, err
		}

		lgr.Info().Msg("Establishing database connection...")
		pg, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")
		return postgres.NewStore(pg, lgr), nil

	case config.DriverMongo:
		lgr.Info().Msg("Establishing MongoDB connection...")
		m, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, err
		}
		store, err := mongodb.NewStore(ctx, m, lgr)
		if err != nil {
			_ = m.Close(ctx)
			return nil, err
		}
		lgr.Info().Str("database", cfg.Database.Name).Msg("MongoDB connection successfully established.")
		return store, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// MigrateUp applies pending Postgres migrations
func MigrateUp(cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(cfg.Database.URL, lgr)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return err
	}
	return nil
}

// BuildDependencies initializes application services, controllers and middleware on top of store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Repos: store.Repos(), Logger: lgr}

	if err := appMiddleware.RegisterValidators(cfg.App.EmailSuffix); err != nil {
		return nil, err
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Uploads.Dir, "/uploads", lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = NewJWTService(cfg)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Classes)
	deps.Hub = websocket.NewHub(lgr)

	now := appServices.SystemClock
	deps.UserService = appServices.NewUserService(deps.Repos, deps.JWTService, cfg.App.EmailSuffix, now, lgr)
	deps.ClassService = appServices.NewClassService(deps.Repos, now, lgr)
	deps.PostService = appServices.NewPostService(deps.Repos, deps.AuthzService, deps.Hub, now, lgr)
	deps.NoteService = appServices.NewNoteService(deps.Repos, deps.AuthzService, deps.FileStorage, cfg.Uploads.MaxSize, now, lgr)
	deps.StudySessionService = appServices.NewStudySessionService(deps.Repos, deps.AuthzService, now, lgr)
	deps.StudyGroupService = appServices.NewStudyGroupService(deps.Repos, now, lgr)
	deps.MessageService = appServices.NewMessageService(deps.Repos, deps.Hub, now, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.Users, lgr)

	wsHandler := websocket.NewHandler(deps.Hub, appMiddleware.SplitOrigins(cfg.Server.CORSOrigin), lgr)
	deps.Controllers = &appRoutes.Controllers{
		Health:       appControllers.NewHealthController(store, lgr),
		User:         appControllers.NewUserController(deps.UserService),
		Class:        appControllers.NewClassController(deps.ClassService, deps.AuthzService, wsHandler),
		Post:         appControllers.NewPostController(deps.PostService),
		Note:         appControllers.NewNoteController(deps.NoteService, cfg.Uploads.MaxSize),
		StudySession: appControllers.NewStudySessionController(deps.StudySessionService),
		StudyGroup:   appControllers.NewStudyGroupController(deps.StudyGroupService),
		Message:      appControllers.NewMessageController(deps.MessageService, wsHandler),
	}

	return deps, nil
}

// NewJWTService builds the token service from the JWT settings
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenTTL(),
		TokenIssuer: cfg.JWT.Issuer,
	})
}

// SeedDefaults creates the default classes when seeding is enabled
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Database.Seed {
		return
	}
	if err := seed.CreateDefaultData(ctx, deps.ClassService, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case strings.EqualFold(cfg.Server.Mode, gin.TestMode):
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.CORSOrigin))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.FileStorage.BasePath())
	return router
}

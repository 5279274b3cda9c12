package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/assignment"
	"github.com/noah-isme/classroom-api/internal/config"
	"github.com/noah-isme/classroom-api/internal/database"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/router"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/b2"
	cloud "github.com/noah-isme/classroom-api/pkg/cloudinary"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "classroom-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	ctx := context.Background()

	db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("dashboard cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("domain events disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	storage, err := newObjectStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to initialise object storage")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	classifier := assignment.NewDueClassifier(loc)

	organizationRepo := repository.NewOrganizationRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	identityService := service.NewIdentityService(teacherRepo, studentRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	dashboardCache := service.NewDashboardCache(redisClient, cfg.DashboardCacheTTL, logger)
	events := service.NewNATSEventPublisher(natsConn, cfg.EventSubjectBase, logger)
	notifier := service.NewChangeNotifier(activityService, events, dashboardCache, logger)

	registrationService := service.NewRegistrationService(teacherRepo, studentRepo, validate, logger)
	organizationService := service.NewOrganizationService(organizationRepo, teacherRepo, studentRepo, identityService, notifier, validate, logger)
	groupService := service.NewGroupService(groupRepo, studentRepo, identityService, notifier, validate, logger)
	taskService := service.NewTaskService(taskRepo, studentRepo, identityService, notifier, classifier, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, identityService, storage, notifier, cfg.SubmissionMaxSizeMB, logger)
	teacherDashboardService := service.NewTeacherDashboardService(identityService, organizationRepo, groupRepo, studentRepo, taskRepo, submissionRepo, classifier, logger)
	studentDashboardService := service.NewStudentDashboardService(identityService, organizationRepo, teacherRepo, studentRepo, taskRepo, submissionRepo, dashboardCache, classifier, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.SubmissionMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		IdentityHandler:         handler.NewIdentityHandler(identityService, registrationService, logger),
		OrganizationHandler:     handler.NewOrganizationHandler(organizationService, logger),
		GroupHandler:            handler.NewGroupHandler(groupService, logger),
		TaskHandler:             handler.NewTaskHandler(taskService, logger),
		TeacherDashboardHandler: handler.NewTeacherDashboardHandler(teacherDashboardService, logger),
		ActivityHandler:         handler.NewActivityHandler(activityService, identityService, logger),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(studentDashboardService, logger),
		SubmissionHandler:       handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
		UploadLimiter:           middleware.RateLimit("submission-upload", cfg.UploadRateLimit, cfg.UploadRateWindow),
		ExposeMetrics:           true,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("timezone", loc.String()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newObjectStorage(ctx context.Context, cfg config.Config, logger zerolog.Logger) (service.ObjectStorage, error) {
	if cfg.StorageDriver == config.StorageDriverB2 {
		storage, err := b2.New(ctx, b2.Config{
			AccountID:      cfg.B2AccountID,
			ApplicationKey: cfg.B2ApplicationKey,
			Bucket:         cfg.B2Bucket,
		}, logger)
		if err != nil {
			return nil, err
		}
		return storage, nil
	}

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/config"
	"github.com/templui/skilledger/internal/db"
	"github.com/templui/skilledger/internal/metrics"
	"github.com/templui/skilledger/internal/notify"
	"github.com/templui/skilledger/internal/repository"
	"github.com/templui/skilledger/internal/service"
	"github.com/templui/skilledger/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Store              *repository.Store
	Metrics            *metrics.Metrics
	Publisher          notify.Publisher
	AuthService        *service.AuthService
	AchievementService *service.AchievementService
	ProgressService    *service.ProgressService
	ExportService      *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := repository.NewStore(database)
	m := metrics.New()

	// Export archive (optional)
	var archive storage.Storage
	if cfg.ExportEnabled() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		archive = s3Storage
	} else {
		slog.Info("export archive disabled", "hint", "set S3_BUCKET to enable")
	}

	// Achievement notifications (optional)
	var publisher notify.Publisher = notify.Nop{}
	if cfg.NotificationsEnabled() {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize notifications: %w", err)
		}
		publisher = amqpPublisher
	}

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
	achievementService := service.NewAchievementService(store, publisher, m)
	progressService := service.NewProgressService(store, achievementService, m, cfg.SessionWindowDays)
	exportService := service.NewExportService(store, archive)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Store:              store,
		Metrics:            m,
		Publisher:          publisher,
		AuthService:        authService,
		AchievementService: achievementService,
		ProgressService:    progressService,
		ExportService:      exportService,
	}, nil
}

func (a *App) Close() error {
	var errs []error

	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}

	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}

	return errors.Join(errs...)
}

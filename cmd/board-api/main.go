package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ack-board/api/swagger"
	"github.com/noah-isme/ack-board/internal/handler"
	"github.com/noah-isme/ack-board/internal/middleware"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	"github.com/noah-isme/ack-board/internal/service"
	"github.com/noah-isme/ack-board/pkg/cache"
	"github.com/noah-isme/ack-board/pkg/config"
	"github.com/noah-isme/ack-board/pkg/database"
	"github.com/noah-isme/ack-board/pkg/jobs"
	"github.com/noah-isme/ack-board/pkg/logger"
	corsmiddleware "github.com/noah-isme/ack-board/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ack-board/pkg/middleware/requestid"
	"github.com/noah-isme/ack-board/pkg/storage"
)

// @title Acknowledgment Board API
// @version 1.0.0
// @description Shared announcement board where employees acknowledge announcements.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type announcementStore interface {
	List(ctx context.Context) ([]models.Announcement, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	AddAcknowledgment(ctx context.Context, id int64, employee string) (bool, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	seed, err := loadSeed(cfg)
	if err != nil {
		logr.Fatal("failed to load seed announcements", zap.Error(err))
	}

	checks := map[string]handler.ReadinessCheck{}

	store, db, err := openAnnouncementStore(ctx, cfg, seed, logr)
	if err != nil {
		logr.Fatal("failed to open announcement store", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db.PingContext
	}

	metrics := service.NewMetricsService()

	var cacheBackend service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		cacheRepo := repository.NewCacheRepository(client, "board", logr)
		defer cacheRepo.Close() //nolint:errcheck
		checks["redis"] = cacheRepo.Ping
		cacheBackend = cacheRepo
	}
	cacheService := service.NewCacheService(cacheBackend, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	fileStore, err := storage.NewLocalStorage(cfg.Images.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare image storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Images.SignedURLSecret, cfg.Images.SignedURLTTL)
	images := service.NewImageService(fileStore, signer, service.ImageServiceConfig{
		BaseURL:      cfg.APIPrefix + "/images",
		MaxSizeBytes: cfg.Images.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Images.AllowedMIMEs,
	}, metrics, logr)

	checker, err := service.NewCredentialChecker(cfg.Creator.Secret, cfg.Creator.SecretHash)
	if err != nil {
		logr.Fatal("invalid creator credentials", zap.Error(err))
	}

	sessionRepo := repository.NewSessionRepository()
	announcements := service.NewAnnouncementService(store, service.AnnouncementServiceConfig{
		Roster:                cfg.Board.Roster,
		DefaultTotalEmployees: cfg.Board.DefaultTotalEmployees,
		FallbackTitle:         cfg.Board.FallbackTitle,
	}, cacheService, images, metrics, logr)
	sessions := service.NewSessionService(sessionRepo, images, service.SessionServiceConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	}, metrics, logr)
	board := service.NewBoardService(sessionRepo, announcements, images, nil, logr)
	reports := service.NewExportService(announcements, logr)

	worker := service.NewSubmissionWorker(sessionRepo, announcements, cfg.Board.SubmitDelay, metrics, logr)
	queue := jobs.NewQueue("submissions", worker.Handle, jobs.QueueConfig{
		Workers: 2,
		Logger:  logr,
	})
	queue.Start(ctx)
	creation := service.NewCreationService(sessionRepo, checker, images, queue, nil, metrics, logr)

	go runMaintenance(ctx, cfg, sessions, announcements, images, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Routes{
		Sessions:      handler.NewSessionHandler(sessions, board),
		Board:         handler.NewBoardHandler(board),
		Creation:      handler.NewCreationHandler(creation, board),
		Announcements: handler.NewAnnouncementHandler(announcements, reports),
		Images:        handler.NewImageHandler(images),
		SessionAuth:   middleware.Session(sessions),
	}.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}

func loadSeed(cfg *config.Config) ([]models.Announcement, error) {
	now := time.Now().UTC()
	if cfg.Board.SeedFile == "" {
		return repository.DefaultSeed(now), nil
	}
	return repository.LoadSeedFile(cfg.Board.SeedFile, now)
}

func openAnnouncementStore(ctx context.Context, cfg *config.Config, seed []models.Announcement, logr *zap.Logger) (announcementStore, *sqlx.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory, "":
		return repository.NewMemoryAnnouncementRepository(seed), nil, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewAnnouncementRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		seeded, err := repo.SeedIfEmpty(ctx, seed)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if seeded {
			logr.Info("seeded announcement store", zap.Int("announcements", len(seed)))
		}
		return repo, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// runMaintenance prunes idle sessions and removes image files nothing references.
func runMaintenance(ctx context.Context, cfg *config.Config, sessions *service.SessionService, announcements *service.AnnouncementService, images *service.ImageService, logr *zap.Logger) {
	interval := cfg.Session.PruneInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := sessions.Prune(ctx)
			referenced, err := announcements.ImageReferences(ctx)
			if err != nil {
				logr.Warn("skipping image cleanup", zap.Error(err))
				continue
			}
			referenced = append(referenced, sessions.DraftImages(ctx)...)
			removed := images.Cleanup(ctx, cfg.Session.TTL, referenced)
			if pruned > 0 || removed > 0 {
				logr.Info("maintenance pass", zap.Int("sessions_pruned", pruned), zap.Int("images_removed", removed))
			}
		}
	}
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/hermes-labs/catalog-service/internal/cfg"
	v1Http "github.com/hermes-labs/catalog-service/internal/delivery/v1/http"
	"github.com/hermes-labs/catalog-service/internal/infrastructure/kafka"
	minioInfra "github.com/hermes-labs/catalog-service/internal/infrastructure/minio"
	s3Repo "github.com/hermes-labs/catalog-service/internal/repository/minio"
	"github.com/hermes-labs/catalog-service/internal/repository/pgdb"
	pgdbConv "github.com/hermes-labs/catalog-service/internal/repository/pgdb/converter"
	"github.com/hermes-labs/catalog-service/internal/repository/redis"
	redisConv "github.com/hermes-labs/catalog-service/internal/repository/redis/converter"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/clients"
	"github.com/hermes-labs/catalog-service/pkg/closer"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/hermes-labs/catalog-service/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// Run поднимает сервис каталога: PostgreSQL с миграциями, Redis-кэш,
// MinIO для файлов изображений, Kafka с outbox-воркером и HTTP API.
func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverter()
	imConv := pgdbConv.NewImageConverter()
	lkConv := pgdbConv.NewLookupConverter()
	obConv := pgdbConv.NewOutboxEventConverter()
	cacheConv := redisConv.NewProductConverter()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	imageRepo := pgdb.NewImageRepo(db.Pool, imConv)
	lookupRepo := pgdb.NewLookupRepo(db.Pool, lkConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, obConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, logger)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	objectRepo := s3Repo.NewObjectRepo(minioClient, cfg.Minio)
	objectsInfra := minioInfra.NewMinioInfrastructure(objectRepo, cfg.Minio, logger, appCtx)
	cl.Add(func(ctx context.Context) error {
		return objectsInfra.WaitForCleanup(ctx)
	})

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	outboxWorker.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		return nil
	})

	productUC := usecase.NewProductUC(
		productRepo,
		imageRepo,
		lookupRepo,
		outboxRepo,
		db.Pool,
		cacheRepo,
		logger,
	)

	imageUC := usecase.NewImageUC(
		imageRepo,
		outboxRepo,
		objectsInfra,
		db.Pool,
		logger,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(productUC, imageUC, cfg.Image)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown: LIFO, сначала HTTP, последним пул базы ===
	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		logger.Infof("Application shutdown complete")
	}

	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/market-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/market-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/market-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/infrastructure/identity"
	"github.com/DRSN-tech/market-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/market-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/market-backend/internal/infrastructure/payment"
	"github.com/DRSN-tech/market-backend/internal/infrastructure/reconciler"
	s3Repo "github.com/DRSN-tech/market-backend/internal/repository/minio"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/market-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/clients"
	"github.com/DRSN-tech/market-backend/pkg/closer"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/DRSN-tech/market-backend/pkg/postgres"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout      = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
	forcedCloseTimeout  = 3 * time.Second
	topicTimeout        = 10 * time.Second
	healthProbeInterval = 10 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	// bgCtx отменяется при остановке и прерывает фоновые задачи
	bgCtx    context.Context
	bgCancel context.CancelFunc

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	healthProbe  *v1Grpc.HealthProbe
	outboxWorker *kafka.OutboxWorker
	reconciler   *reconciler.Worker
}

// NewApp подключается к хранилищам и собирает все слои. При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(forcedCloseTimeout),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	a.closer.AddFunc("background context", bgCancel)

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("cleanup after failed start: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.AddFunc("postgres", db.Close)

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	redisCtx, redisCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return err
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return err
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize kafka producer")
		return err
	}
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Warnf("kafka topic check failed, relying on broker auto-creation: %v", err)
	}

	verifier, err := identity.NewFirebaseVerifier(context.Background(), a.cfg.Firebase, a.logger)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize firebase")
		return err
	}

	settlementCurrency, err := domain.ParseCurrency(a.cfg.Payment.Currency)
	if err != nil {
		return err
	}

	// Репозитории
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	priceRepo := pgdb.NewPriceRepo(db.Pool, pgdbConv.NewPriceSampleConverterImpl())
	settlementRepo := pgdb.NewSettlementRepo(db.Pool, pgdbConv.NewSettlementConverterImpl())
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.NewOrderConverterImpl())
	watchlistRepo := pgdb.NewWatchlistRepo(db.Pool, pgdbConv.NewWatchlistConverterImpl())
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.NewUserConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())
	reviewRepo := pgdb.NewReviewRepo(db.Pool, pgdbConv.NewReviewConverterImpl())
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverterImpl(), a.cfg.Redis, a.logger)
	receiptRepo := s3Repo.NewReceiptRepo(minioClient, a.cfg.Minio)

	// Инфраструктура
	txRunner := tr.NewRunner(db.Pool)
	processor := payment.NewStripeProcessor(a.cfg.Payment, a.logger)
	receipts := minioInfra.NewReceiptArchive(receiptRepo, a.logger, a.bgCtx)
	a.closer.Add("receipt uploads", receipts.WaitForUploads)

	// Бизнес-логика
	productUC := usecase.NewProductUC(productRepo, priceRepo, outboxRepo, cacheRepo, txRunner, a.logger)
	priceUC := usecase.NewPriceUC(productRepo, priceRepo, outboxRepo, txRunner, a.logger)
	catalogUC := usecase.NewCatalogUC(productRepo)
	orderUC := usecase.NewOrderUC(orderRepo)
	watchlistUC := usecase.NewWatchlistUC(productRepo, watchlistRepo)
	userUC := usecase.NewUserUC(userRepo)
	reviewUC := usecase.NewReviewUC(productRepo, reviewRepo, a.logger)
	settlementUC := usecase.NewSettlementUC(
		productRepo,
		settlementRepo,
		orderRepo,
		outboxRepo,
		processor,
		receipts,
		txRunner,
		usecase.SettlementOptions{
			Currency:      settlementCurrency,
			VerifyIntents: a.cfg.Payment.VerifyIntents,
			MaxAttempts:   a.cfg.Reconciler.MaxAttempts,
		},
		a.logger,
	)

	// Фоновые воркеры
	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, pgdb.OutboxNotifyChannel, a.cfg.Kafka.OutboxBatchSize)
	a.closer.AddFunc("outbox worker", a.outboxWorker.Stop)

	a.reconciler = reconciler.NewWorker(settlementUC, a.cfg.Reconciler, a.logger)
	a.closer.AddFunc("reconciler", a.reconciler.Stop)

	// Транспорт
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	a.healthProbe = v1Grpc.NewHealthProbe(a.grpcSrv.Health(), map[string]v1Grpc.Probe{
		"postgres": func(ctx context.Context) error { return db.Pool.Ping(ctx) },
		"redis":    redisClient.Ping,
	}, healthProbeInterval, a.logger)
	a.closer.AddFunc("health probe", a.healthProbe.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger, a.cfg.Http.SwaggerURL).Init(v1Http.UseCases{
		Product:    productUC,
		Catalog:    catalogUC,
		Price:      priceUC,
		Settlement: settlementUC,
		Order:      orderUC,
		Watchlist:  watchlistUC,
		User:       userUC,
		Review:     reviewUC,
		Identity:   verifier,
	})

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и воркеры и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)
	a.reconciler.Start(a.bgCtx)
	a.healthProbe.Start(a.bgCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

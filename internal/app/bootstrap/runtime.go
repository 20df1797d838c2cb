package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/sellforge/marketplace/internal/adapters/cache"
	eventadapter "github.com/sellforge/marketplace/internal/adapters/events"
	grpcadapter "github.com/sellforge/marketplace/internal/adapters/grpc"
	httpadapter "github.com/sellforge/marketplace/internal/adapters/http"
	"github.com/sellforge/marketplace/internal/adapters/memory"
	"github.com/sellforge/marketplace/internal/adapters/postgres"
	"github.com/sellforge/marketplace/internal/adapters/security"
	stripeadapter "github.com/sellforge/marketplace/internal/adapters/stripe"
	"github.com/sellforge/marketplace/internal/application"
	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

// Runtime holds the wired application. Listeners are not bound here; RunAPI
// binds them so a worker process never contends for the API ports.
type Runtime struct {
	cfg       Config
	logger    *slog.Logger
	router    http.Handler
	service   *application.Service
	outbox    *eventadapter.OutboxWorker
	cleanupFn func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer

	var repos struct {
		Affiliates ports.AffiliateRepository
		Links      ports.LinkRepository
		Products   ports.ProductRepository
		Sales      ports.SaleRepository
		Outbox     ports.OutboxRepository
	}
	if cfg.DatabaseURL != "" {
		db, connErr := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if connErr != nil {
			return nil, connErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		if migErr := postgres.RunMigrations(ctx, db); migErr != nil {
			_ = sqlDB.Close()
			return nil, migErr
		}
		pg := postgres.NewRepositories(db)
		repos.Affiliates, repos.Links, repos.Products, repos.Sales, repos.Outbox =
			pg.Affiliates, pg.Links, pg.Products, pg.Sales, pg.Outbox
		closers = append(closers, sqlDB)
	} else {
		// Volatile stores for local smoke runs only.
		logger.WarnContext(ctx, "no database configured, using in-memory stores")
		mem := memory.NewRepositories()
		repos.Affiliates, repos.Links, repos.Products, repos.Sales, repos.Outbox =
			mem.Affiliates, mem.Links, mem.Products, mem.Sales, mem.Outbox
	}

	var linkCache ports.LinkCache
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			logger.WarnContext(ctx, "redis unavailable, link cache disabled", "error", redisErr)
		} else {
			linkCache = cache.NewRedisLinkCache(redisClient)
			closers = append(closers, redisClient)
		}
	}

	verifier, err := security.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:       cfg.ServiceID,
			PublicBaseURL:     cfg.PublicBaseURL,
			DefaultCurrency:   cfg.DefaultCurrency,
			ReferralCookieTTL: cfg.ReferralCookieTTL,
			LinkCacheTTL:      cfg.LinkCacheTTL,
			LinkCodeLength:    cfg.LinkCodeLength,
			LinkCodeAttempts:  cfg.LinkCodeAttempts,
		},
		Logger:     logger,
		Affiliates: repos.Affiliates,
		Links:      repos.Links,
		Products:   repos.Products,
		Sales:      repos.Sales,
		Outbox:     repos.Outbox,
		Processor:  stripeadapter.NewClient(cfg.StripeAPIKey, cfg.StripeAPIBaseURL),
		Verifier:   stripeadapter.NewSignatureVerifier(cfg.StripeWebhookSecret, cfg.WebhookTolerance),
		LinkCache:  linkCache,
	})

	router := httpadapter.NewRouter(service, verifier, logger)

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			domain.EventLinkCreated:   domain.EventLinkCreated,
			domain.EventClickTracked:  domain.EventClickTracked,
			domain.EventSaleRecorded:  domain.EventSaleRecorded,
			domain.EventSaleCancelled: domain.EventSaleCancelled,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	return &Runtime{
		cfg:     cfg,
		logger:  logger,
		router:  router,
		service: service,
		outbox:  outbox,
		cleanupFn: func(context.Context) {
			closeAll(closers)
		},
	}, nil
}

// newGRPCServer registers the internal surface exactly once; the adapter owns
// the health service registration.
func newGRPCServer(service *application.Service) *grpc.Server {
	srv := grpc.NewServer()
	grpcadapter.Register(srv, grpcadapter.NewMarketplaceInternalServer(service))
	return srv
}

func Build(ctx context.Context, configPath string) (*Runtime, error) {
	return NewRuntime(ctx, configPath)
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", r.cfg.HTTPPort),
		Handler:           r.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcServer := newGRPCServer(r.service)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		r.cleanupFn(context.Background())
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()
	go func() {
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
	case serveErr := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", serveErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := r.outbox.Run(ctx)
	r.cleanupFn(context.Background())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/mastimed/mobilegestion/internal/cfg"
	v1Grpc "github.com/mastimed/mobilegestion/internal/delivery/v1/grpc"
	v1Http "github.com/mastimed/mobilegestion/internal/delivery/v1/http"
	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/internal/infrastructure/kafka"
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/closer"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/jitter"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

const (
	forcedCloseTimeout = 2 * time.Second
	retryBaseDelay     = 100 * time.Millisecond
	retryMaxDelay      = 5 * time.Second
)

type App struct {
	cfg    *config.Config
	logger logger.Logger

	ledger  *usecase.Ledger
	outbox  *kafka.OutboxWorker // nil, если Kafka выключена
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	closer  *closer.Closer
}

// NewApp собирает зависимости приложения. Серверы не запускаются до Run.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(forcedCloseTimeout),
	}

	var events usecase.EventPublisher = usecase.NopPublisher{}
	if cfg.Kafka.Enabled {
		outbox, err := a.initKafka()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.outbox = outbox
		events = outbox
	} else {
		log.Infof("kafka disabled, ledger events are not published")
	}

	var seed []domain.Product
	if cfg.Ledger.Seed {
		seed = seedProducts()
	}
	a.ledger = usecase.NewLedger(seed, events, log)
	log.Infof("ledger initialized with %d products", len(seed))

	a.grpcSrv = v1Grpc.NewGRPCServer(&cfg.Grpc, log)
	a.grpcSrv.RegisterServices(a.ledger)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(a.ledger)

	a.httpSrv = v1Http.NewServer(r, &cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

func (a *App) initKafka() (*kafka.OutboxWorker, error) {
	producer := kafka.NewProducer(a.logger, &a.cfg.Kafka)
	if err := producer.EnsureTopic(a.cfg.Kafka.TopicTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic %s", a.cfg.Kafka.Topic)
		_ = producer.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	outbox := kafka.NewOutboxWorker(
		producer,
		a.logger,
		a.cfg.Kafka.OutboxSize,
		a.cfg.Kafka.MaxRetries,
		jitter.NewBackoff(retryBaseDelay, retryMaxDelay, jitter.DefaultJitter),
	)
	a.closer.Add("kafka outbox", func(ctx context.Context) error {
		err := outbox.Stop(ctx)
		stats := outbox.Stats()
		a.logger.Infof("kafka outbox stopped: published=%d failed=%d dropped=%d",
			stats.Published, stats.Failed, stats.Dropped)
		return err
	})

	return outbox, nil
}

// Run запускает серверы и блокируется до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	if a.outbox != nil {
		a.outbox.Start(context.Background())
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			a.logger.Errorf(err, "gRPC server failed")
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}

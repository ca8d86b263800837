package internal

import (
	"context"
	logger_adapter "estatemap/internal/adapters/logger"
	rabbitmq_adapter "estatemap/internal/adapters/rabbitmq"
	"estatemap/internal/adapters/rest"
	"estatemap/internal/configs"
	"estatemap/internal/contracts"
	"estatemap/internal/core/port"
	"estatemap/internal/core/usecase"
	fluentlogger "estatemap/pkg/fluent_logger"
	"estatemap/pkg/rabbitmq/rabbitmq_common"
	"estatemap/pkg/rabbitmq/rabbitmq_producer"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	store        *openedStore
	rabbitMgr    *rabbitmq_common.ConnectionManager
	producer     *rabbitmq_producer.Publisher
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// newLogger собирает stdout- и (если включен) fluent-логгер в один.
func newLogger(cfg *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.IsJSON,
		UseColor: !cfg.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	return multiLogger.WithFields(port.Fields{"service_name": cfg.AppName}), fluentClient, nil
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	baseLogger, fluentClient, err := newLogger(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{"fluent_enabled": appConfig.FluentBit.Enabled})
	for _, w := range appConfig.Warnings {
		appLogger.Warn(w, nil)
	}

	a := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}

	// --- 2. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	a.store, err = openStore(context.Background(), appConfig.Store, baseLogger)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	dataset, err := openDataset(appConfig.Seed, appLogger)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	registry, err := contracts.NewRegistry()
	if err != nil {
		a.closeResources()
		return nil, fmt.Errorf("failed to compile contracts: %w", err)
	}

	var enquiryEvents port.EnquiryEventsPort
	if appConfig.RabbitMQ.Enabled {
		enquiryEvents, err = a.initEnquiryEvents(registry, baseLogger)
		if err != nil {
			a.closeResources()
			return nil, err
		}
	}
	appLogger.Info("All outgoing adapters initialized.", port.Fields{"rabbitmq_enabled": appConfig.RabbitMQ.Enabled})

	// --- 3. USE CASES ---
	store := a.store.store
	handlers := rest.NewEstateMapHandlers(
		usecase.NewFindListingsUseCase(store),
		usecase.NewLoadDashboardUseCase(store, dataset),
		usecase.NewListMarkersUseCase(store, dataset),
		usecase.NewGetListingUseCase(store, dataset),
		usecase.NewSubmitEnquiryUseCase(store, enquiryEvents),
		usecase.NewSeedListingsUseCase(store, dataset, appConfig.Seed.BatchSize),
		usecase.NewCheckHealthUseCase(store),
		registry,
	)

	// --- 4. REST API ---
	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
	}, handlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return a, nil
}

func (a *App) initEnquiryEvents(registry *contracts.Registry, baseLogger port.LoggerPort) (port.EnquiryEventsPort, error) {
	bridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	mgr, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, bridge)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.rabbitMgr = mgr

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             a.config.RabbitMQ.Exchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   bridge,
	}, mgr)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
	}
	a.producer = producer

	events, err := rabbitmq_adapter.NewEnquiryEventsPublisher(producer, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create enquiry events publisher: %w", err)
	}
	return events, nil
}

// Run запускает HTTP-сервер и ждет SIGINT/SIGTERM.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error stopping api server", err, nil)
		}
		a.closeResources()
	}()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- a.apiServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals...", port.Fields{"port": a.config.Rest.PORT})
	select {
	case receivedSignal := <-quit:
		a.logger.Info("Received signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		if err != nil {
			a.logger.Error("HTTP server failed", err, nil)
			return err
		}
	}
	return nil
}

// closeResources закрывает внешние ресурсы в обратном порядке создания.
// Fluent закрывается последним, чтобы ушли логи остальных шагов.
func (a *App) closeResources() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.rabbitMgr != nil {
		if err := a.rabbitMgr.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.store != nil {
		a.store.close()
		a.logger.Info("Listing store closed.", nil)
	}
	a.logger.Info("Application shut down gracefully.", nil)
	if a.fluentClient != nil {
		a.fluentClient.Close()
	}
}

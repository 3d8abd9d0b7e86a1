package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "eri-tracker-service/internal/adapters/logger"
	"eri-tracker-service/internal/adapters/erifetcher"
	"eri-tracker-service/internal/adapters/excel"
	"eri-tracker-service/internal/adapters/mapextract"
	"eri-tracker-service/internal/adapters/nominatim"
	postgres_adapter "eri-tracker-service/internal/adapters/postgres"
	rabbitmq_adapter "eri-tracker-service/internal/adapters/rabbitmq"
	"eri-tracker-service/internal/adapters/rest"
	"eri-tracker-service/internal/configs"
	"eri-tracker-service/internal/constants"
	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/port"
	"eri-tracker-service/internal/core/usecase"
	fluentlogger "eri-tracker-service/pkg/fluent_logger"
	"eri-tracker-service/pkg/postgres"
	"eri-tracker-service/pkg/rabbitmq/rabbitmq_common"
	"eri-tracker-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	refreshUC *usecase.RefreshRegionUseCase

	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	logger        port.LoggerPort
	fluentClient  *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ХРАНИЛИЩЕ ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	dbPool, err := postgres.NewClient(initCtx, postgres.Config{
		DatabaseURL: appConfig.Database.URL,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	appLogger.Info("PostgreSQL connection pool initialized.", nil)

	houseStorage, err := postgres_adapter.NewHouseStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create house storage adapter: %w", err)
	}
	if err := houseStorage.EnsureSchema(initCtx); err != nil {
		dbPool.Close()
		appLogger.Error("Failed to ensure database schema", err, nil)
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	// --- 4. RABBITMQ ---
	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		dbPool.Close()
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.TrackerExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		dbPool.Close()
		connManager.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	notifier, err := rabbitmq_adapter.NewNewHouseNotifierAdapter(eventProducer, constants.RoutingKeyNewHouses)
	if err != nil {
		return nil, fmt.Errorf("failed to create new-house notifier: %w", err)
	}

	// --- 5. АДАПТЕРЫ КОНВЕЙЕРА ---
	registryFetcher, err := erifetcher.NewRegistryFetcherAdapter(constants.RegistrySearchURL, appConfig.Tracker.PageDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry fetcher: %w", err)
	}

	coordResolver, err := buildCoordinateResolver(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger.Info("Coordinate resolution strategy selected", port.Fields{
		"strategy": appConfig.Tracker.CoordsStrategy,
	})

	reportExporter := excel.NewExporter("")

	// --- 6. USE CASES ---
	reconcileUC := usecase.NewReconcileHousesUseCase(houseStorage, notifier)
	refreshUC := usecase.NewRefreshRegionUseCase(
		registryFetcher,
		coordResolver,
		reconcileUC,
		appConfig.Tracker.PageDelay,
		appConfig.Tracker.ListingDelay,
	)

	// Догеокодирование всегда идет через Nominatim, независимо от основной
	// стратегии: headless-браузер для фоновой дообработки избыточен
	geocodeResolver, err := nominatim.NewResolver(nominatim.Config{
		BaseURL:        appConfig.Geocoder.BaseURL,
		UserAgent:      appConfig.Geocoder.UserAgent,
		Region:         constants.GeocoderRegion,
		Country:        constants.GeocoderCountry,
		CountryCodes:   constants.CountryCodes,
		CandidateDelay: appConfig.Geocoder.CandidateDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder resolver: %w", err)
	}
	geocodeMissingUC := usecase.NewGeocodeMissingUseCase(houseStorage, geocodeResolver, appConfig.Tracker.ListingDelay)

	getHousesUC := usecase.NewGetHousesUseCase(houseStorage)
	exportHousesUC := usecase.NewExportHousesUseCase(houseStorage, reportExporter)

	appLogger.Info("All use cases initialized", nil)

	// --- 7. REST ---
	housesHandlers := rest.NewHousesHandler(getHousesUC, exportHousesUC)
	trackerHandlers := rest.NewTrackerHandler(refreshUC, geocodeMissingUC, appConfig.Tracker.Region)
	apiServer := rest.NewServer(appConfig.REST.Port, housesHandlers, trackerHandlers, baseLogger)

	application := &App{
		config:        appConfig,
		apiServer:     apiServer,
		refreshUC:     refreshUC,
		dbPool:        dbPool,
		connManager:   connManager,
		eventProducer: eventProducer,
		logger:        appLogger,
		fluentClient:  fluentClient,
	}

	return application, nil
}

// buildCoordinateResolver выбирает стратегию определения координат.
// При "off" возвращается nil и оркестратор пропускает этот шаг.
func buildCoordinateResolver(cfg *configs.AppConfig) (port.CoordinateResolverPort, error) {
	switch cfg.Tracker.CoordsStrategy {
	case "off":
		return nil, nil
	case "map":
		return mapextract.NewResolver(cfg.Browser.MarkerTimeout), nil
	case "geocode":
		resolver, err := nominatim.NewResolver(nominatim.Config{
			BaseURL:        cfg.Geocoder.BaseURL,
			UserAgent:      cfg.Geocoder.UserAgent,
			Region:         constants.GeocoderRegion,
			Country:        constants.GeocoderCountry,
			CountryCodes:   constants.CountryCodes,
			CandidateDelay: cfg.Geocoder.CandidateDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create geocoder resolver: %w", err)
		}
		return resolver, nil
	default:
		return nil, fmt.Errorf("unknown coordinate strategy: %q", cfg.Tracker.CoordsStrategy)
	}
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Пишем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.REST.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	if a.config.Tracker.RefreshInterval > 0 {
		go a.runPeriodicRefresh(appCtx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed to start, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

// runPeriodicRefresh гоняет конвейер по расписанию, пока жив контекст
// приложения. Первый прогон выполняется сразу.
func (a *App) runPeriodicRefresh(ctx context.Context) {
	schedulerLogger := a.logger.WithFields(port.Fields{"component": "scheduler"})
	schedulerLogger.Info("Periodic refresh enabled", port.Fields{
		"interval": a.config.Tracker.RefreshInterval.String(),
		"region":   a.config.Tracker.Region,
	})

	runCtx := contextkeys.ContextWithLogger(ctx, a.logger)

	ticker := time.NewTicker(a.config.Tracker.RefreshInterval)
	defer ticker.Stop()

	for {
		if _, err := a.refreshUC.Execute(runCtx, a.config.Tracker.Region); err != nil {
			schedulerLogger.Error("Scheduled refresh failed", err, nil)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}

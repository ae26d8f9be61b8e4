package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/in/http"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/cache"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/clinic"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/logger"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/metrics"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/session"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
	"github.com/suchimauz/clinic-intake-router/internal/core/services/intake_service"
)

const serviceName = "intake-router"

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, syncLogger, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer syncLogger()
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
		"sessionStore":    cfg.Session.Store,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация адаптеров
	clinicAdapter := clinic.NewClinicAdapter(cfg, mainLogger.WithModule("ClinicAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		appointmentsCache, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = appointmentsCache
	}

	sessionStore, err := newSessionStore(ctx, cfg, mainLogger.WithModule("SessionStore"))
	if err != nil {
		logger.Error("app.session_store.init_failed", out.LogFields{
			"store": cfg.Session.Store,
			"error": err.Error(),
		})
		os.Exit(1)
	}

	metricsAdapter := metrics.NewPrometheusAdapter(serviceName)

	// Инициализация сервиса
	intakeService := intake_service.NewIntakeService(
		clinicAdapter,
		cacheAdapter,
		sessionStore,
		metricsAdapter,
		mainLogger,
	)

	// Настройка HTTP сервера
	router := gin.New()
	router.Use(gin.Recovery(), metricsAdapter.GinMiddleware())
	if cfg.IsLocal() {
		router.Use(gin.Logger())
	}

	controller := http.NewIntakeController(
		intakeService,
		cfg,
		mainLogger.WithModule("HttpController"),
		metricsAdapter.Handler(),
	)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewCacheHitListener(
			intakeService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}

// newLogger локально читаемый вывод в консоль, на стендах JSON через zap
func newLogger(cfg *config.Config) (out.LoggerPort, func(), error) {
	if cfg.IsLocal() || cfg.Log.Format == config.LogFormatConsole {
		consoleLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.Log.Level)
		if err != nil {
			return nil, nil, err
		}
		return consoleLogger, func() {}, nil
	}

	zapLogger, err := logger.NewZapLogger(cfg.Log.Level, serviceName)
	if err != nil {
		return nil, nil, err
	}
	return zapLogger, func() { _ = zapLogger.Sync() }, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (out.SessionStorePort, error) {
	if cfg.Session.Store == config.SessionStoreRedis {
		store := session.NewRedisSessionAdapter(cfg, session.NewRedisClient(cfg), logger)
		if err := store.Ping(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := session.NewMemorySessionAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

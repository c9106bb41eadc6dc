package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"hostgate/internal/config"
	"hostgate/internal/config_handler"
	"hostgate/internal/constants"
	"hostgate/internal/gate"
	"hostgate/internal/logger"
	"hostgate/internal/notify"
	"hostgate/internal/whitelist"
	"hostgate/pkg/bootstrap"
	"hostgate/pkg/health"
	"hostgate/pkg/logging"
	"hostgate/pkg/metrics"
	"hostgate/pkg/middleware"
	"hostgate/pkg/models"
	"hostgate/pkg/ratelimit"
	"hostgate/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	loader      *config.Loader
	dbConnector *bootstrap.DatabaseConnector
	source      *ruleSource
	rules       *whitelist.Service
	dispatcher  *notify.Dispatcher
	gate        *gate.Gate
	limiter     *ratelimit.Limiter
	server      *http.Server
	tracer      *tracing.Provider

	runMu  sync.Mutex
	runCtx context.Context
}

func NewApp(loader *config.Loader, cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(constants.ServiceName)
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		loader:      loader,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		runCtx:      context.Background(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(ctx, a.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracer = tp

	metrics.RegisterGateMetrics()
	metrics.RegisterWhitelistMetrics()
	metrics.RegisterNotifyMetrics()
	metrics.RegisterBrokerMetrics()
	metrics.RegisterManagementMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.InitBroker(constants.ServiceName); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initRules(ctx); err != nil {
		return fmt.Errorf("failed to initialize rules: %w", err)
	}

	if err := a.initNotifications(ctx); err != nil {
		return fmt.Errorf("failed to initialize notifications: %w", err)
	}

	a.gate = gate.New(a.rules.Store(), a.dispatcher, gate.SettingsFromConfig(a.Config), a.Logger)

	if a.Config.Server.Enabled {
		a.initHTTPServer()
	}

	return nil
}

func (a *App) initRules(ctx context.Context) error {
	source, err := openRuleSource(ctx, a.Config, a.loader.Path(), a.dbConnector)
	if err != nil {
		return err
	}
	a.source = source

	a.rules = whitelist.NewService(source.repo, whitelist.NewStore(), a.Config.Whitelist.Reload, a.Logger)
	if a.Producer != nil {
		a.rules.WithPublisher(whitelist.NewEventProducer(a.Producer, a.Config.Broker.Kafka.ConfigUpdateTopic))
	}

	if err := a.rules.ReloadNow(ctx); err != nil {
		initCtx := logging.WithServiceName(ctx, constants.ServiceName)
		a.Logger.WarnwCtx(initCtx, "Failed to load initial rules, all hostnames are denied until the next reload",
			"error", err,
		)
	}
	return nil
}

func (a *App) initNotifications(ctx context.Context) error {
	a.dispatcher = notify.NewDispatcher(a.Config.Notify, a.Config.CircuitBreaker, a.Logger)
	return a.dispatcher.Configure(a.Config.Notify.Endpoint)
}

func (a *App) initHTTPServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))
	if a.tracer.Enabled() {
		router.Use(tracing.GinMiddleware(constants.ServiceName))
	}

	var apiMiddleware []gin.HandlerFunc
	if rl := a.Config.Management.RateLimit; rl.Enabled {
		a.limiter = ratelimit.NewLimiter(ratelimit.RateLimitConfig{
			RPS:             rl.RPS,
			Burst:           rl.Burst,
			CleanupInterval: time.Duration(rl.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(rl.MaxAge) * time.Second,
		})
		apiMiddleware = append(apiMiddleware, a.limiter.Middleware())
		a.Logger.Infow("Rate limiting enabled", "rps", rl.RPS, "burst", rl.Burst)
	}

	gate.NewHandler(a.gate, a.rules, a.Logger).RegisterRoutes(router, apiMiddleware...)

	healthRegistry := health.NewCheckerRegistry()
	store := a.rules.Store()
	healthRegistry.Register(health.NewCheckerFunc("rules", func(ctx context.Context) error {
		if store.Current().Len() == 0 {
			return errors.New("no hostname rules loaded")
		}
		return nil
	}))
	if a.source.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.source.db))
	}
	if a.source.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.source.redis))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	a.runMu.Lock()
	a.runCtx = gCtx
	a.runMu.Unlock()

	a.loader.Watch(a.onConfigChange)

	if a.server != nil {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("HTTP server shutdown error: %w", err)
			}
			return nil
		})
	}

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.RunCleanup(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		return ignoreCanceled(a.rules.StartReloader(gCtx))
	})

	if a.source.file != "" && a.Config.Whitelist.Reload.Watch {
		path := a.source.file
		g.Go(func() error {
			return ignoreCanceled(a.rules.WatchFile(gCtx, path))
		})
	}

	if a.Consumer != nil {
		eventHandler := config_handler.NewHandler(a.rules, a.Logger)
		topic := a.Config.Broker.Kafka.ConfigUpdateTopic

		g.Go(func() error {
			consumeCtx := logging.WithServiceName(gCtx, constants.ServiceName)
			a.Logger.InfowCtx(consumeCtx, "Starting rule update event consumer", "topic", topic)
			return ignoreCanceled(a.Consumer.Consume(gCtx, topic, func(cCtx context.Context, msg models.MessageEnvelope) error {
				return eventHandler.HandleConfigUpdateEvent(cCtx, msg)
			}))
		})
	}

	return g.Wait()
}

// onConfigChange applies a re-read config file. Invalid files are ignored and
// the running settings stay in place.
func (a *App) onConfigChange(cfg *config.Config, err error) {
	if err != nil {
		a.Logger.Warnw("Ignoring invalid configuration change", "error", err)
		return
	}

	a.runMu.Lock()
	ctx := a.runCtx
	a.runMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	a.gate.UpdateSettings(gate.SettingsFromConfig(cfg))

	a.dispatcher.UpdateSettings(cfg.Notify, cfg.CircuitBreaker)
	if err := a.dispatcher.Configure(cfg.Notify.Endpoint); err != nil {
		a.Logger.ErrorwCtx(ctx, "Failed to reconfigure notifications, keeping previous sink", "error", err)
	}

	if err := a.rules.ReloadNow(ctx); err != nil {
		a.Logger.ErrorwCtx(ctx, "Failed to reload rules after configuration change", "error", err)
	}

	a.Logger.InfowCtx(ctx, "Configuration reloaded",
		"rules_count", a.rules.Store().Current().Len(),
		"notifications_enabled", a.dispatcher.Enabled(),
	)
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, constants.ServiceName)
	a.Logger.InfowCtx(shutdownCtx, "Shutting down hostgate")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.dispatcher != nil {
			if err := a.dispatcher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("notification dispatcher close error: %w", err))
			}
		}

		errs = append(errs, a.source.close(a.dbConnector)...)

		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

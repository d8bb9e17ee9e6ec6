package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/stream"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	pkgqueue "StockCast/pkg/queue"
)

// App owns the process lifecycle: it starts the queue workers and the
// HTTP server, then tears everything down in reverse order on SIGINT or
// SIGTERM.
type App struct {
	cfg     *config.Config
	logger  *applogger.Logger
	handler xhttp.Handler

	queue       *pkgqueue.RedisQueue    // nil when the queue is disabled
	hub         *stream.Hub             // nil when streaming is disabled
	publisher   domrepo.EventPublisher  // nil when events are disabled
	chClient    *pkgch.Client
	redisClient *redis.Client // nil when redis is disabled

	httpServer *xhttp.Server
}

func New(cfg *config.Config, logger *applogger.Logger, handler xhttp.Handler, chClient *pkgch.Client) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		chClient: chClient,
	}
}

func (a *App) SetQueue(q *pkgqueue.RedisQueue)            { a.queue = q }
func (a *App) SetStreamHub(h *stream.Hub)                 { a.hub = h }
func (a *App) SetEventPublisher(p domrepo.EventPublisher) { a.publisher = p }
func (a *App) SetRedisClient(c *redis.Client)             { a.redisClient = c }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			return err
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("stockcast started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then drains workers, then closes clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Warn("http shutdown error", applogger.Error(err))
		}
	}
	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			a.logger.Warn("queue stop error", applogger.Error(err))
		}
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("stockcast stopped")
	return nil
}

package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/cache"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/service/stream"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/series"
	"StockCast/internal/usecase"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	pkgqueue "StockCast/pkg/queue"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates the ClickHouse client and ensures the
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideRedisClient creates the shared Redis client, or nil when Redis
// is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideDatasetStore creates the ClickHouse dataset store.
func ProvideDatasetStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.DatasetStore {
	return internalrepo.NewCHDatasetStore(ch, cfg.ClickHouse.Database, l)
}

// ProvidePredictionStore creates the ClickHouse prediction store.
func ProvidePredictionStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.PredictionStore {
	return internalrepo.NewCHPredictionStore(ch, cfg.ClickHouse.Database, l)
}

// ProvideValidator creates the input series validator.
func ProvideValidator(cfg *config.Config) *series.Validator {
	return series.NewValidator(cfg.Pipeline.MinSamples)
}

// ProvideForecastModel creates the seasonal-trend forecast model.
func ProvideForecastModel(cfg *config.Config) domsvc.ForecastModel {
	opts := forecast.DefaultOptions()
	opts.IntervalWidth = cfg.Pipeline.IntervalWidth
	return forecast.New(opts)
}

// ProvideExportCache creates the CSV export cache: Redis when enabled,
// otherwise an in-process TTL cache.
func ProvideExportCache(cfg *config.Config, rc *redis.Client, l *applogger.Logger) cache.BytesCache {
	if rc != nil {
		return cache.NewRedisCache(rc, "stockcast:cache:", l)
	}
	return cache.NewTTLCache(time.Minute)
}

// ProvideEventPublisher creates the Kafka completion publisher, or nil
// when events are disabled.
func ProvideEventPublisher(cfg *config.Config) (domrepo.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Events.Topic), nil
}

// ProvideStreamHub creates the WebSocket broadcast hub.
func ProvideStreamHub(l *applogger.Logger) *stream.Hub {
	return stream.NewHub(l)
}

// ProvidePipeline creates the prediction pipeline with its optional
// fan-out targets attached.
func ProvidePipeline(
	cfg *config.Config,
	validator *series.Validator,
	model domsvc.ForecastModel,
	datasets domrepo.DatasetStore,
	results domrepo.PredictionStore,
	mx domrepo.Metrics,
	publisher domrepo.EventPublisher,
	hub *stream.Hub,
	l *applogger.Logger,
) *usecase.Pipeline {
	p := usecase.NewPipeline(usecase.PipelineConfig{
		TrainFraction:  cfg.Pipeline.TrainFraction,
		MinHorizonDays: cfg.Pipeline.MinHorizonDays,
		MaxHorizonDays: cfg.Pipeline.MaxHorizonDays,
	}, validator, model, datasets, results, mx, l)
	if publisher != nil {
		p.SetEventPublisher(publisher)
	}
	if hub != nil {
		p.SetBroadcaster(hub)
	}
	return p
}

// ProvideUploader creates the CSV upload use case.
func ProvideUploader(
	datasets domrepo.DatasetStore,
	validator *series.Validator,
	mx domrepo.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.Uploader {
	return usecase.NewUploader(datasets, validator, mx, cfg.Pipeline.DefaultSymbol, l)
}

// ProvideResults creates the results use case.
func ProvideResults(store domrepo.PredictionStore, exports cache.BytesCache, cfg *config.Config) *usecase.Results {
	return usecase.NewResults(store, exports, cfg.Cache.TTL)
}

// ProvideUploadLimiter creates the per-IP upload rate limiter.
func ProvideUploadLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.UploadLimit.Capacity, cfg.UploadLimit.PerSecond)
}

// ProvideJobStore creates the Redis job store, or nil when the queue is
// disabled.
func ProvideJobStore(cfg *config.Config, rc *redis.Client) domrepo.JobStore {
	if !cfg.Queue.Enabled || rc == nil {
		return nil
	}
	return internalrepo.NewRedisJobStore(rc, cfg.Queue.JobTTL)
}

// ProvideQueue creates the Redis work queue with the predict job
// registered, or nil when the queue is disabled.
func ProvideQueue(
	cfg *config.Config,
	rc *redis.Client,
	pipeline *usecase.Pipeline,
	jobs domrepo.JobStore,
	l *applogger.Logger,
) *pkgqueue.RedisQueue {
	if !cfg.Queue.Enabled || rc == nil || jobs == nil {
		return nil
	}
	q := pkgqueue.NewRedisQueue(l, pkgqueue.Config{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rc)
	q.RegisterJob(usecase.NewPredictJobHandler(pipeline, jobs, cfg.Pipeline.FitTimeout, l))
	return q
}

// ProvideAsyncPredictor creates the async predict use case, or nil when
// the queue is disabled.
func ProvideAsyncPredictor(q *pkgqueue.RedisQueue, jobs domrepo.JobStore) *usecase.AsyncPredictor {
	if q == nil || jobs == nil {
		return nil
	}
	return usecase.NewAsyncPredictor(q, jobs)
}

// ProvideHandler assembles the HTTP route registrar.
func ProvideHandler(
	l *applogger.Logger,
	uploader *usecase.Uploader,
	pipeline *usecase.Pipeline,
	results *usecase.Results,
	limiter *ratelimit.Limiter,
	async *usecase.AsyncPredictor,
	hub *stream.Hub,
	datasets domrepo.DatasetStore,
) xhttp.Handler {
	fh := api.NewForecastHandler(l, uploader, pipeline, results, limiter)
	if async != nil {
		fh.SetAsyncPredictor(async)
	}
	if hub != nil {
		fh.SetStreamHub(hub)
	}
	return api.NewMux(fh, api.NewHealthHandler(datasets))
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	ch *pkgch.Client,
	rc *redis.Client,
	q *pkgqueue.RedisQueue,
	hub *stream.Hub,
	publisher domrepo.EventPublisher,
) *server.App {
	app := server.New(cfg, l, handler, ch)
	if rc != nil {
		app.SetRedisClient(rc)
	}
	if q != nil {
		app.SetQueue(q)
	}
	if hub != nil {
		app.SetStreamHub(hub)
	}
	if publisher != nil {
		app.SetEventPublisher(publisher)
	}
	return app
}

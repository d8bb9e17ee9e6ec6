//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockCast/pkg/config"
	"StockCast/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideEventPublisher,

		// Stores
		ProvideDatasetStore,
		ProvidePredictionStore,
		ProvideJobStore,
		ProvideExportCache,

		// Pipeline components
		ProvideValidator,
		ProvideForecastModel,
		ProvideStreamHub,
		ProvidePipeline,

		// Use cases
		ProvideUploader,
		ProvideResults,
		ProvideUploadLimiter,
		ProvideQueue,
		ProvideAsyncPredictor,

		// Transport
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil
}

//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"sbbd/internal"
	"sbbd/internal/controllers"
	"sbbd/internal/models"
	"sbbd/internal/providers"
	"sbbd/internal/services"
	"sbbd/internal/storage"
	"sbbd/internal/storage/interfaces"
	"sbbd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		models.NewBoardStore,
		storage.NewZstdCompressor,
		storage.NewFileManager,
		wire.Bind(new(interfaces.PersisterInterface), new(*storage.FileManager)),
		storage.NewBackupManager,
		storage.NewScheduler,
		services.NewBoardService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

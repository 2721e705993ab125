package storage_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/storage"
)

var Module = fx.Provide(provideObjectStore)

func provideObjectStore(lc fx.Lifecycle, sc buildCFG.StorageConfig, log *zerolog.Logger) (storage.ObjectStore, error) {
	if sc.Driver == "memory" {
		return storage.NewMemoryStore(sc.Minio.PublicBaseURL), nil
	}

	store, err := storage.NewMinioStore(sc.Minio, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureBucket(ctx, sc.Bucket, sc.Minio.Region)
		},
	})
	return store, nil
}

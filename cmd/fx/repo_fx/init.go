package repo_fx

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

var Module = fx.Options(
	fx.Provide(provideRepository),
	fx.Invoke(migrate),
)

func provideRepository(db *dbpg.DB, log *zerolog.Logger) (repo.Repository, error) {
	return repo.NewRepository(db, log)
}

// migrate applies pending schema files on start. Nothing is rolled back on stop.
func migrate(lc fx.Lifecycle, r repo.Repository, fc buildCFG.FlowConfig, log *zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := r.MigrateUp(ctx, fc.MigrationsDir); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			return nil
		},
	})
}

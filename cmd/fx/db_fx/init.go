package db_fx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
)

var Module = fx.Provide(provideDB)

func provideDB(lc fx.Lifecycle, cfg buildCFG.Getter, log *zerolog.Logger) (*dbpg.DB, error) {
	master, slaves, opts, err := buildCFG.BuildDBConfig(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build DB config: %w", err)
	}
	db, err := dbpg.New(master, slaves, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing database connections")
			return db.Master.Close()
		},
	})
	return db, nil
}

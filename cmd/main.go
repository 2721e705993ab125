package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/auth_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/config_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/content_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/db_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/flow_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/rabbit_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/repo_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/service_fx"
	"github.com/berryray-tech/Berry-Ray-main/cmd/fx/storage_fx"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		repo_fx.Module,
		storage_fx.Module,
		rabbit_fx.Module,
		auth_fx.Module,
		flow_fx.Module,
		content_fx.Module,
		service_fx.Module,

		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *ginext.Engine, sc buildCFG.ServerConfig, log *zerolog.Logger) {
	srv := &http.Server{
		Addr:         ":" + sc.Port,
		Handler:      app,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Msgf("Starting server on %s", sc.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("server error")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, sc.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

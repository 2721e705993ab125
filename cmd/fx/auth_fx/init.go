package auth_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/gate"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

var Module = fx.Options(
	fx.Provide(provideAuthService, provideGate),
	fx.Invoke(watchSessions),
)

func provideAuthService(r repo.Repository, ac buildCFG.AuthConfig, log *zerolog.Logger) (*auth.Service, error) {
	return auth.NewService(r, ac.Config, log)
}

func provideGate(r repo.Repository, log *zerolog.Logger) *gate.Gate {
	return gate.New(r, log)
}

// watchSessions re-runs the admin check on every sign-in and refresh.
func watchSessions(lc fx.Lifecycle, g *gate.Gate, sessions *auth.Service, ac buildCFG.AuthConfig) {
	var stop func()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			stop = g.Watch(sessions, ac.ForceSignOut)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if stop != nil {
				stop()
			}
			return nil
		},
	})
}

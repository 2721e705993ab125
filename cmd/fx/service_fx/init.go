package service_fx

import (
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/api/api"
	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/catalog"
	"github.com/berryray-tech/Berry-Ray-main/internal/content"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/gate"
	"github.com/berryray-tech/Berry-Ray-main/internal/notify"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/internal/service"
)

var Module = fx.Provide(provideService, provideRouter)

type serviceParams struct {
	fx.In

	Catalog  *catalog.Loader
	Drafts   *flow.Registry
	Content  *content.Service
	Sessions *auth.Service
	Gate     *gate.Gate
	Repo     repo.Repository
	Notifier *notify.Notifier
	Auth     buildCFG.AuthConfig
	Log      *zerolog.Logger
}

func provideService(p serviceParams) service.Service {
	deps := service.Deps{
		Catalog:       p.Catalog,
		Drafts:        p.Drafts,
		Content:       p.Content,
		Sessions:      p.Sessions,
		Gate:          p.Gate,
		Registrations: p.Repo,
		ForceSignOut:  p.Auth.ForceSignOut,
	}
	if p.Notifier != nil {
		deps.Notifier = p.Notifier
	}
	return service.NewService(deps, p.Log)
}

func provideRouter(svc service.Service, sc buildCFG.ServerConfig, log *zerolog.Logger) *ginext.Engine {
	return api.NewRouters(&api.Routers{
		Service:      svc,
		Logger:       log,
		Mode:         sc.Mode,
		AllowOrigins: sc.AllowOrigins,
	})
}

package content_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/internal/content"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

var Module = fx.Provide(provideContentService)

func provideContentService(r repo.Repository, log *zerolog.Logger) *content.Service {
	return content.NewService(r, log)
}

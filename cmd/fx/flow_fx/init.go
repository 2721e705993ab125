package flow_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/catalog"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/notify"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/internal/storage"
)

var Module = fx.Provide(
	provideCatalog,
	provideSubmitter,
	provideRegistry,
)

func provideCatalog(r repo.Repository, log *zerolog.Logger) *catalog.Loader {
	return catalog.NewLoader(r, log)
}

func provideSubmitter(
	r repo.Repository,
	objects storage.ObjectStore,
	sc buildCFG.StorageConfig,
	n *notify.Notifier,
	log *zerolog.Logger,
) *registration.Submitter {
	var opts []registration.Option
	if n != nil {
		opts = append(opts, registration.WithNotifier(n))
	}
	return registration.NewSubmitter(r, objects, sc.Bucket, log, opts...)
}

func provideRegistry(sub *registration.Submitter, fc buildCFG.FlowConfig) *flow.Registry {
	return flow.NewRegistry(sub, fc.DraftTTL)
}

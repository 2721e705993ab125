package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

var (
	ErrUnavailable     = errors.New("unable to load services at this time, please try again later")
	ErrServiceNotFound = errors.New("service not found")
)

type Store interface {
	ListServicesWithPackages(ctx context.Context) ([]model.Service, error)
}

// Loader reads the service catalog with every service's packages in one query.
type Loader struct {
	store Store
	log   *zerolog.Logger
}

func NewLoader(store Store, log *zerolog.Logger) *Loader {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Loader{store: store, log: log}
}

// Load returns services ordered by id. There is no retry and no partial result.
func (l *Loader) Load(ctx context.Context) ([]model.Service, error) {
	services, err := l.store.ListServicesWithPackages(ctx)
	if err != nil {
		l.log.Error().Err(err).Msg("failed to load catalog")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if services == nil {
		services = []model.Service{}
	}
	return services, nil
}

// Service loads the catalog and picks one service out of it.
func (l *Loader) Service(ctx context.Context, id string) (model.Service, error) {
	services, err := l.Load(ctx)
	if err != nil {
		return model.Service{}, err
	}
	for _, s := range services {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
}

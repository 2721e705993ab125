package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

type fakeStore struct {
	services []model.Service
	err      error
	calls    int
}

func (f *fakeStore) ListServicesWithPackages(context.Context) ([]model.Service, error) {
	f.calls++
	return f.services, f.err
}

func TestLoader_Load(t *testing.T) {
	services := []model.Service{
		{ID: "svc1", Title: "Tutoring", Packages: []model.Package{{ID: "pkgA", Price: model.NewPrice("₦5,000")}}},
		{ID: "svc2", Title: "Admissions"},
	}

	got, err := NewLoader(&fakeStore{services: services}, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services, got)
}

func TestLoader_LoadEmpty(t *testing.T) {
	got, err := NewLoader(&fakeStore{}, nil).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoader_LoadFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("malformed nested json")}

	got, err := NewLoader(store, nil).Load(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, store.calls)
}

func TestLoader_Service(t *testing.T) {
	l := NewLoader(&fakeStore{services: []model.Service{{ID: "svc1"}, {ID: "svc2"}}}, nil)

	s, err := l.Service(context.Background(), "svc2")
	require.NoError(t, err)
	assert.Equal(t, "svc2", s.ID)

	_, err = l.Service(context.Background(), "svc9")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

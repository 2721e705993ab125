package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/rabbit"
)

type published struct {
	key  string
	body []byte
}

type fakePublisher struct{ msgs []published }

func (f *fakePublisher) Publish(_ context.Context, key string, body []byte) error {
	f.msgs = append(f.msgs, published{key: key, body: body})
	return nil
}

func TestNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := New(pub)
	n.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	reg := &model.ServiceRegistration{
		ID: 7, FullName: "Jane Doe", Email: "jane@example.com",
		ServiceTitle: "Tutoring", PackageName: "Basic", PackagePrice: 5000, Status: model.StatusPending,
	}
	require.NoError(t, n.RegistrationCreated(context.Background(), reg))

	reg.Status = model.StatusApproved
	require.NoError(t, n.StatusChanged(context.Background(), reg))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, rabbit.RoutingRegistrationCreated, pub.msgs[0].key)
	assert.Equal(t, rabbit.RoutingStatusChanged, pub.msgs[1].key)

	var notice dto.RegistrationNotice
	require.NoError(t, json.Unmarshal(pub.msgs[1].body, &notice))
	assert.Equal(t, int64(7), notice.RegistrationID)
	assert.Equal(t, model.StatusApproved, notice.Status)
	assert.Equal(t, rabbit.RoutingStatusChanged, notice.Event)
	assert.Equal(t, 5000.0, notice.PackagePrice)
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/rabbit"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

// Notifier turns registration changes into broker messages.
type Notifier struct {
	pub Publisher
	now func() time.Time
}

func New(pub Publisher) *Notifier {
	return &Notifier{pub: pub, now: time.Now}
}

func (n *Notifier) RegistrationCreated(ctx context.Context, reg *model.ServiceRegistration) error {
	return n.publish(ctx, rabbit.RoutingRegistrationCreated, reg)
}

func (n *Notifier) StatusChanged(ctx context.Context, reg *model.ServiceRegistration) error {
	return n.publish(ctx, rabbit.RoutingStatusChanged, reg)
}

func (n *Notifier) publish(ctx context.Context, key string, reg *model.ServiceRegistration) error {
	payload, err := json.Marshal(NoticeFor(key, reg, n.now()))
	if err != nil {
		return fmt.Errorf("marshal %s notice: %w", key, err)
	}
	return n.pub.Publish(ctx, key, payload)
}

func NoticeFor(event string, reg *model.ServiceRegistration, at time.Time) dto.RegistrationNotice {
	return dto.RegistrationNotice{
		Event:          event,
		RegistrationID: reg.ID,
		FullName:       reg.FullName,
		Email:          reg.Email,
		ServiceTitle:   reg.ServiceTitle,
		PackageName:    reg.PackageName,
		PackagePrice:   reg.PackagePrice,
		Status:         reg.Status,
		OccurredAt:     at.UTC(),
	}
}

package consumerWorker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/rabbit"
)

type Consumer interface {
	Consume(handler rabbit.Handler) error
}

type Sender interface {
	SendRegistrationEmail(n dto.RegistrationNotice) error
}

// Reader consumes registration notices and e-mails the registrant.
type Reader struct {
	RMQ    Consumer
	mail   Sender
	log    *zerolog.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq Consumer, mail Sender, log *zerolog.Logger) *Reader {
	return &Reader{
		RMQ:  rmq,
		mail: mail,
		log:  log,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("RabbitMQ reader started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(r.handle); err != nil {
			r.log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("RabbitMQ reader stopped by context")
	}()
}

// handle acks malformed messages by returning nil so they are not redelivered
// forever; only a failed send asks for a retry.
func (r *Reader) handle(routingKey string, body []byte) error {
	var msg dto.RegistrationNotice
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Str("routing_key", routingKey).Msgf("failed to unmarshal message: %s", string(body))
		return nil
	}
	if msg.Event == "" {
		msg.Event = routingKey
	}

	r.log.Info().
		Int64("registration_id", msg.RegistrationID).
		Str("event", msg.Event).
		Msg("received registration notice")

	if msg.Email == "" {
		r.log.Warn().Int64("registration_id", msg.RegistrationID).Msg("notice has no recipient, skipping")
		return nil
	}

	if err := r.mail.SendRegistrationEmail(msg); err != nil {
		return fmt.Errorf("registration %d: %w", msg.RegistrationID, err)
	}
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

package rabbit_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	rabbitReader "github.com/berryray-tech/Berry-Ray-main/internal/consumerWorker"
	"github.com/berryray-tech/Berry-Ray-main/internal/mailer"
	"github.com/berryray-tech/Berry-Ray-main/internal/notify"
	"github.com/berryray-tech/Berry-Ray-main/internal/rabbit"
)

var Module = fx.Options(
	fx.Provide(provideRabbit, provideNotifier, mailer.New),
	fx.Invoke(startReader),
)

// provideRabbit returns nil when the broker is not configured.
func provideRabbit(lc fx.Lifecycle, rc buildCFG.RabbitConfig, log *zerolog.Logger) (*rabbit.Client, error) {
	if !rc.Enabled() {
		return nil, nil
	}
	rmq, err := rabbit.NewRabbit(rc.Url, rc.Exchange, rc.Queue)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			rmq.Close()
			return nil
		},
	})
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("RabbitMQ connected")
	return rmq, nil
}

func provideNotifier(rmq *rabbit.Client) *notify.Notifier {
	if rmq == nil {
		return nil
	}
	return notify.New(rmq)
}

func startReader(lc fx.Lifecycle, rmq *rabbit.Client, mail *mailer.Mailer, log *zerolog.Logger) {
	if rmq == nil {
		return
	}
	reader := rabbitReader.NewReader(rmq, mail, log)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			reader.Start(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelWorkers()
			reader.Stop()
			return nil
		},
	})
}

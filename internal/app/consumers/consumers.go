package consumers

import (
	"accounts/internal/app/deps"
	dl "accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	tokensender "accounts/internal/implementations/token_sender"
	tokennotification "accounts/internal/rabbitmq/consumers/token_notification"
	"context"
)

// deliverySender is what the notifier uses to actually deliver tokens. Tokens
// are only logged if SES is not configured.
func deliverySender(deps *deps.Deps) user.TokenSender {
	if deps.EmailSender != nil {
		return deps.EmailSender
	}
	deps.Logger.Warning(context.Background(), "SES is not configured, tokens will be logged only.")
	return tokensender.NewLog(deps.Logger, deps.URLs())
}

func initTokenNotificationConsumer(deps *deps.Deps) func() {
	rabbitmqChannel := deps.DeclareTokenNotificationQueue()

	queue := deps.Config.RabbitmqTokenNotificationQueue
	consumer := tokennotification.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		deliverySender(deps),
	)
	if err := consumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps) func() {
	if deps.Rabbitmq == nil {
		panic("RABBITMQ_URL must be set to run consumers")
	}
	shutdownTokenNotificationConsumer := initTokenNotificationConsumer(deps)

	return func() {
		shutdownTokenNotificationConsumer()
	}
}

package tokennotification

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/rabbitmq/schema"
	"context"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
}

// RabbitMQ is a user.TokenSender which defers delivery to the notifier
// worker.
type RabbitMQ struct {
	log        logging.Logger
	channel    Publisher
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel Publisher, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (s *RabbitMQ) SendToken(ctx context.Context, notification user.TokenNotification) error {
	message := schema.TokenNotification{
		UserID:    int64(notification.UserID),
		Email:     notification.Email,
		Purpose:   string(notification.Purpose),
		Token:     string(notification.Token),
		ExpiresAt: notification.ExpiresAt,
	}
	body, err := message.Marshal()
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}
	s.log.Info(
		ctx,
		"Token notification has been published.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("userID", notification.UserID),
		logging.Entry("purpose", notification.Purpose),
	)
	return nil
}

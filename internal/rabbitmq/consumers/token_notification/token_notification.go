package tokennotification

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/rabbitmq"
	"accounts/internal/rabbitmq/schema"
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer delivers queued token notifications with the wrapped sender.
// Messages are acknowledged even if delivery fails, a user can always ask
// for a new token.
type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	sender  user.TokenSender
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	sender user.TokenSender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.Handle(context.Background(), delivery)
		}
	}()
	return nil
}

func (c *Consumer) Handle(ctx context.Context, delivery amqp091.Delivery) {
	defer c.ack(ctx, delivery)

	message := &schema.TokenNotification{}
	if err := message.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal token notification.",
			logging.Entry("err", err),
			logging.Entry("deliveryTag", delivery.DeliveryTag),
		)
		return
	}

	c.log.Info(
		ctx,
		"Got token notification.",
		logging.Entry("userID", message.UserID),
		logging.Entry("purpose", message.Purpose),
	)
	err := c.sender.SendToken(ctx, user.TokenNotification{
		UserID:    user.ID(message.UserID),
		Email:     message.Email,
		Purpose:   user.Purpose(message.Purpose),
		Token:     user.SealedToken(message.Token),
		ExpiresAt: message.ExpiresAt,
	})
	if err != nil {
		c.log.Error(
			ctx,
			"Could not send token notification.",
			logging.Entry("userID", message.UserID),
			logging.Entry("err", err),
		)
	}
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

package tokennotification

import (
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/rabbitmq"
	"accounts/internal/rabbitmq/schema"
	"context"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return nil
}

func newConsumer(sender user.TokenSender) (*Consumer, *logging.FakeLogger) {
	log := logging.NewFakeLogger()
	return New(log, &rabbitmq.Channel{}, "token-notification", sender), log
}

func delivery(t *testing.T, ack *fakeAcknowledger, message schema.TokenNotification) amqp091.Delivery {
	body, err := message.Marshal()
	require.Nil(t, err)
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: body}
}

func TestHandleSendsToken(t *testing.T) {
	sender := user.NewFakeTokenSender()
	consumer, _ := newConsumer(sender)
	ack := &fakeAcknowledger{}
	expiresAt := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

	consumer.Handle(context.Background(), delivery(t, ack, schema.TokenNotification{
		UserID:    42,
		Email:     "test@test.test",
		Purpose:   "verify_email",
		Token:     "sealed",
		ExpiresAt: expiresAt,
	}))

	require.Equal(t, []uint64{7}, ack.acked)
	require.Equal(t, 1, sender.SentCount())
	require.Equal(t, user.TokenNotification{
		UserID:    42,
		Email:     "test@test.test",
		Purpose:   user.PurposeVerifyEmail,
		Token:     "sealed",
		ExpiresAt: expiresAt,
	}, sender.LastSent())
}

func TestHandleAcksOnSendFailure(t *testing.T) {
	sender := user.NewFakeTokenSender()
	sender.ReturnError = true
	consumer, log := newConsumer(sender)
	ack := &fakeAcknowledger{}

	consumer.Handle(context.Background(), delivery(t, ack, schema.TokenNotification{UserID: 1}))

	require.Equal(t, []uint64{7}, ack.acked)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}

func TestHandleAcksMalformedMessage(t *testing.T) {
	sender := user.NewFakeTokenSender()
	consumer, log := newConsumer(sender)
	ack := &fakeAcknowledger{}

	consumer.Handle(context.Background(), amqp091.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("{")})

	require.Equal(t, []uint64{7}, ack.acked)
	require.Equal(t, 0, sender.SentCount())
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}

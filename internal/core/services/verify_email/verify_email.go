package verifyemail

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	consumetoken "accounts/internal/core/services/consume_token"
	"context"
	"time"
)

type Input struct {
	Token      user.SealedToken
	ClientAddr string
}

func (i Input) GetRateLimitKey() string {
	return "verify-email::client:" + i.ClientAddr
}

type Result struct {
	User user.User
}

type service struct {
	log          logging.Logger
	envelope     user.TokenEnvelope
	consumeToken services.Service[consumetoken.Input, consumetoken.Result]
	events       user.EventPublisher
	now          func() time.Time
}

func New(
	log logging.Logger,
	envelope user.TokenEnvelope,
	consumeToken services.Service[consumetoken.Input, consumetoken.Result],
	events user.EventPublisher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if envelope == nil {
		panic(e.NewNilArgumentError("envelope"))
	}
	if consumeToken == nil {
		panic(e.NewNilArgumentError("consumeToken"))
	}
	if events == nil {
		panic(e.NewNilArgumentError("events"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:          log,
		envelope:     envelope,
		consumeToken: consumeToken,
		events:       events,
		now:          now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrMissingFields
	}
	opened, err := s.envelope.Open(input.Token)
	if err != nil {
		s.log.Info(ctx, "Could not open verification token.", logging.Entry("err", err))
		return result, user.ErrInvalidToken
	}
	if opened.Purpose != user.PurposeVerifyEmail {
		return result, user.ErrInvalidToken
	}

	consumed, err := s.consumeToken.Run(ctx, consumetoken.Input{
		UserID:  opened.UserID,
		Value:   opened.Value,
		Purpose: user.PurposeVerifyEmail,
	})
	if err != nil {
		return result, err
	}

	event := user.Event{UserID: consumed.User.ID, Type: user.EventAccountVerified, At: s.now()}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("event", event))
	}

	s.log.Info(ctx, "Email has been verified.", logging.Entry("userID", consumed.User.ID))
	return Result{User: consumed.User}, nil
}

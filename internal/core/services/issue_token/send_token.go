package issuetoken

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
)

type serviceWithTokenSending struct {
	log      logging.Logger
	envelope user.TokenEnvelope
	sender   user.TokenSender
	inner    services.Service[Input, Result]
}

func NewWithTokenSending(
	log logging.Logger,
	envelope user.TokenEnvelope,
	sender user.TokenSender,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if envelope == nil {
		panic(e.NewNilArgumentError("envelope"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithTokenSending{
		log:      log,
		envelope: envelope,
		sender:   sender,
		inner:    inner,
	}
}

func (s *serviceWithTokenSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil {
		return result, err
	}

	sealed, err := SendToken(ctx, s.envelope, s.sender, result.User, result.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send token.",
			logging.Entry("userID", result.User.ID),
			logging.Entry("purpose", result.Token.Purpose),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Token has been sent to the user.",
		logging.Entry("userID", result.User.ID),
		logging.Entry("purpose", result.Token.Purpose),
	)
	result.Sealed = sealed
	return result, nil
}

// SendToken seals the token for the user and hands it to the sender.
func SendToken(
	ctx context.Context,
	envelope user.TokenEnvelope,
	sender user.TokenSender,
	u user.User,
	token user.Token,
) (user.SealedToken, error) {
	sealed, err := envelope.Seal(u.ID, token)
	if err != nil {
		return sealed, err
	}
	err = sender.SendToken(ctx, user.TokenNotification{
		UserID:    u.ID,
		Email:     string(u.Email),
		Purpose:   token.Purpose,
		Token:     sealed,
		ExpiresAt: token.ExpiresAt,
	})
	return sealed, err
}

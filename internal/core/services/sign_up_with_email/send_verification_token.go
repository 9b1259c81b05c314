package signupwithemail

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	issuetoken "accounts/internal/core/services/issue_token"
	"context"
	"errors"
)

type serviceWithVerificationTokenSending struct {
	log      logging.Logger
	envelope user.TokenEnvelope
	sender   user.TokenSender
	inner    services.Service[Input, Result]
}

// NewWithVerificationTokenSending delivers the verification token issued at
// sign up. A delivery failure does not fail the sign up, the user can ask
// for another verification email.
func NewWithVerificationTokenSending(
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
	return &serviceWithVerificationTokenSending{
		log:      log,
		envelope: envelope,
		sender:   sender,
		inner:    inner,
	}
}

func (s *serviceWithVerificationTokenSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending verification token.", logging.Entry("err", err))
		return result, err
	}
	if !result.User.Token.IsPresent {
		return result, nil
	}

	sealed, err := issuetoken.SendToken(ctx, s.envelope, s.sender, result.User, result.User.Token.Value)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", result.User.ID))
		return result, nil
	}

	s.log.Info(
		ctx,
		"Verification token has been sent to the user.",
		logging.Entry("userID", result.User.ID),
	)
	result.Sealed = sealed
	return result, nil
}

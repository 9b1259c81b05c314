package consumetoken

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	UserID  user.ID
	Value   user.TokenValue
	Purpose user.Purpose
	// NewPasswordHash is required for user.PurposeResetPassword.
	NewPasswordHash c.Optional[user.PasswordHash]
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		now:            now,
	}
}

// Run checks the presented token in a fixed order: account existence, already
// verified account, value, expiry. The transition itself is a conditional
// update, so only one of several concurrent consumers can succeed.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.Purpose.IsValid() {
		return result, user.ErrInvalidRequest
	}
	if input.Purpose == user.PurposeResetPassword && !input.NewPasswordHash.IsPresent {
		return result, user.ErrMissingFields
	}

	u, err := s.userRepository.GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Token presented for unknown user.", logging.Entry("userID", input.UserID))
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}

	at := s.now()
	if input.Purpose == user.PurposeVerifyEmail && u.IsActive() {
		s.clearStaleVerificationToken(ctx, u, at)
		return result, user.ErrUserAlreadyActive
	}

	if err := u.CheckToken(input.Value, input.Purpose, at); err != nil {
		s.log.Info(
			ctx,
			"Token rejected.",
			logging.Entry("userID", u.ID),
			logging.Entry("purpose", input.Purpose),
			logging.Entry("reason", err),
		)
		return result, err
	}

	consumeInput := user.ConsumeTokenInput{
		ID:      u.ID,
		Value:   input.Value,
		Purpose: input.Purpose,
		At:      at,
	}
	switch input.Purpose {
	case user.PurposeVerifyEmail:
		consumeInput.Activate = true
	case user.PurposeResetPassword:
		consumeInput.PasswordHash = input.NewPasswordHash
	}

	updated, err := s.userRepository.ConsumeToken(ctx, consumeInput)
	if errors.Is(err, user.ErrInvalidToken) {
		s.log.Info(
			ctx,
			"Token has been consumed concurrently.",
			logging.Entry("userID", u.ID),
			logging.Entry("purpose", input.Purpose),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"Token has been consumed.",
		logging.Entry("userID", updated.ID),
		logging.Entry("purpose", input.Purpose),
		logging.Entry("status", updated.Status),
	)
	return Result{User: updated}, nil
}

func (s *service) clearStaleVerificationToken(ctx context.Context, u user.User, at time.Time) {
	if !u.Token.IsPresent || u.Token.Value.Purpose != user.PurposeVerifyEmail {
		return
	}
	err := s.userRepository.ClearToken(ctx, user.ClearTokenInput{
		ID:      u.ID,
		Purpose: user.PurposeVerifyEmail,
		At:      at,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
	}
}

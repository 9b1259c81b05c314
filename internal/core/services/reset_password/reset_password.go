package resetpassword

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	consumetoken "accounts/internal/core/services/consume_token"
	"context"
	"errors"
	"fmt"
	"time"
)

type Input struct {
	Token           user.SealedToken
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
	User            c.Optional[user.User]
	ClientAddr      string
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = c.Some(u)
	return i
}

func (i Input) GetRateLimitKey() string {
	if i.User.IsPresent {
		return fmt.Sprintf("reset-password::user:%d", i.User.Value.ID)
	}
	return "reset-password::client:" + i.ClientAddr
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	envelope       user.TokenEnvelope
	consumeToken   services.Service[consumetoken.Input, consumetoken.Result]
	events         user.EventPublisher
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	envelope user.TokenEnvelope,
	consumeToken services.Service[consumetoken.Input, consumetoken.Result],
	events user.EventPublisher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
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
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		envelope:       envelope,
		consumeToken:   consumeToken,
		events:         events,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	authorization, err := Authorize(input)
	if err != nil {
		return result, err
	}
	if input.NewPassword == "" {
		return result, user.ErrMissingFields
	}

	switch a := authorization.(type) {
	case BySession:
		result, err = s.changePassword(ctx, a, input.NewPassword)
	case ByToken:
		result, err = s.resetPassword(ctx, a, input.NewPassword)
	default:
		panic(fmt.Sprintf("unexpected authorization %T", authorization))
	}
	if err != nil {
		return result, err
	}

	event := user.Event{UserID: result.User.ID, Type: user.EventPasswordChanged, At: s.now()}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("event", event))
	}
	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", result.User.ID),
		logging.Entry("authorization", fmt.Sprintf("%T", authorization)),
	)
	return result, nil
}

func (s *service) changePassword(
	ctx context.Context,
	a BySession,
	newPassword user.RawPassword,
) (result Result, err error) {
	if newPassword == a.CurrentPassword {
		return result, user.ErrSamePassword
	}
	if !s.passwordHasher.ValidatePassword(a.CurrentPassword, a.User.PasswordHash) {
		return result, user.ErrInvalidCredentials
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(newPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", a.User.ID))
		return result, err
	}
	err = s.userRepository.SetPassword(ctx, user.SetPasswordInput{
		ID:           a.User.ID,
		PasswordHash: newPasswordHash,
		At:           s.now(),
	})
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", a.User.ID))
		return result, err
	}

	u := a.User
	u.PasswordHash = newPasswordHash
	return Result{User: u}, nil
}

func (s *service) resetPassword(
	ctx context.Context,
	a ByToken,
	newPassword user.RawPassword,
) (result Result, err error) {
	opened, err := s.envelope.Open(a.Token)
	if err != nil {
		s.log.Info(ctx, "Could not open password reset token.", logging.Entry("err", err))
		return result, user.ErrInvalidToken
	}
	if opened.Purpose != user.PurposeResetPassword {
		return result, user.ErrInvalidToken
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(newPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", opened.UserID))
		return result, err
	}
	consumed, err := s.consumeToken.Run(ctx, consumetoken.Input{
		UserID:          opened.UserID,
		Value:           opened.Value,
		Purpose:         user.PurposeResetPassword,
		NewPasswordHash: c.Some(newPasswordHash),
	})
	if err != nil {
		return result, err
	}
	return Result{User: consumed.User}, nil
}

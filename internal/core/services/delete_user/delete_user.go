package deleteuser

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	"context"
	"errors"
	"time"
)

type Input struct {
	UserID user.ID
	// Token is the session the request came with. It is dropped right away,
	// other sessions stop resolving because the user is gone.
	Token user.SessionToken
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.UserID = u.ID
	return i
}

type Result struct{}

type service struct {
	log               logging.Logger
	userRepository    user.UserRepository
	sessionRepository user.SessionRepository
	now               func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	sessionRepository user.SessionRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	err = s.userRepository.Delete(ctx, input.UserID, s.now())
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}

	if input.Token != "" {
		_, err = s.sessionRepository.Delete(ctx, input.Token)
		if err != nil && !errors.Is(err, user.ErrSessionDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		}
	}

	s.log.Info(ctx, "User has been deleted.", logging.Entry("userID", input.UserID))
	return result, nil
}

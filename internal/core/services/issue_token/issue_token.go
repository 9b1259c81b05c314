package issuetoken

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	"context"
	"errors"
	"fmt"
	"time"
)

// Ref points to the account a token is issued for.
type Ref interface {
	fetch(ctx context.Context, repository user.UserRepository) (user.User, error)
	key() string
}

type ByID user.ID

func (r ByID) fetch(ctx context.Context, repository user.UserRepository) (user.User, error) {
	return repository.GetByID(ctx, user.ID(r))
}

func (r ByID) key() string {
	return fmt.Sprintf("id:%d", r)
}

type ByEmail c.Email

func (r ByEmail) fetch(ctx context.Context, repository user.UserRepository) (user.User, error) {
	return repository.GetByEmail(ctx, c.Email(r))
}

func (r ByEmail) key() string {
	return "email:" + string(r)
}

type Input struct {
	Ref     Ref
	Purpose user.Purpose
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.Ref = ByID(u.ID)
	return i
}

func (i Input) GetRateLimitKey() string {
	if i.Ref == nil {
		return "issue-token::" + string(i.Purpose)
	}
	return "issue-token::" + string(i.Purpose) + "::" + i.Ref.key()
}

type Result struct {
	User  user.User
	Token user.Token
	// Sealed is set once the token has been handed over for delivery.
	Sealed user.SealedToken
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenGenerator user.TokenGenerator
	ttl            user.TokenTTL
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenGenerator user.TokenGenerator,
	ttl user.TokenTTL,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		ttl:            ttl,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Ref == nil || !input.Purpose.IsValid() {
		return result, user.ErrInvalidRequest
	}

	u, err := input.Ref.fetch(ctx, s.userRepository)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Could not issue token, user does not exist.",
			logging.Entry("ref", input.Ref.key()),
			logging.Entry("purpose", input.Purpose),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	issuedAt := s.now()
	token := user.NewToken(
		s.tokenGenerator.GenerateToken(),
		input.Purpose,
		issuedAt,
		s.ttl.For(input.Purpose),
	)
	updated, err := s.userRepository.SetToken(ctx, user.SetTokenInput{ID: u.ID, Token: token, At: issuedAt})
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"Token has been issued.",
		logging.Entry("userID", updated.ID),
		logging.Entry("purpose", token.Purpose),
		logging.Entry("expiresAt", token.ExpiresAt),
	)
	return Result{User: updated, Token: token}, nil
}

package services

import (
	"accounts/internal/app/deps"
	drl "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	consumetoken "accounts/internal/core/services/consume_token"
	deleteuser "accounts/internal/core/services/delete_user"
	getuserbysessiontoken "accounts/internal/core/services/get_user_by_session_token"
	issuetoken "accounts/internal/core/services/issue_token"
	loginwithemail "accounts/internal/core/services/log_in_with_email"
	logout "accounts/internal/core/services/log_out"
	ratelimiting "accounts/internal/core/services/rate_limiting"
	resetpassword "accounts/internal/core/services/reset_password"
	signupwithemail "accounts/internal/core/services/sign_up_with_email"
	updateuser "accounts/internal/core/services/update_user"
	verifyemail "accounts/internal/core/services/verify_email"
)

type Services struct {
	SignUpWithEmail       services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail        services.Service[loginwithemail.Input, loginwithemail.Result]
	LogOut                services.Service[logout.Input, logout.Result]
	GetUserBySessionToken services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	UpdateUser            services.Service[updateuser.Input, updateuser.Result]
	DeleteUser            services.Service[deleteuser.Input, deleteuser.Result]

	ConsumeToken           services.Service[consumetoken.Input, consumetoken.Result]
	SendVerificationEmail  services.Service[issuetoken.Input, issuetoken.Result]
	VerifyEmail            services.Service[verifyemail.Input, verifyemail.Result]
	SendPasswordResetToken services.Service[issuetoken.Input, issuetoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 5},
		signupwithemail.NewWithVerificationTokenSending(
			deps.Logger,
			deps.TokenEnvelope,
			deps.TokenSender,
			signupwithemail.New(
				deps.Logger,
				deps.UserRepository,
				deps.PasswordHasher,
				deps.TokenGenerator,
				deps.TokenTTL,
				deps.Now,
			),
		),
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 10},
		loginwithemail.New(
			deps.Logger,
			deps.UserRepository,
			deps.SessionRepository,
			deps.PasswordHasher,
			deps.SessionTokenGenerator,
			deps.Now,
		),
	)
	s.LogOut = logout.New(
		deps.Logger,
		deps.SessionRepository,
	)
	s.GetUserBySessionToken = getuserbysessiontoken.New(
		deps.Logger,
		deps.SessionRepository,
	)
	s.UpdateUser = auth.WithAuthentication(
		deps.SessionRepository,
		updateuser.New(
			deps.Logger,
			deps.UserRepository,
			deps.Now,
		),
	)
	s.DeleteUser = auth.WithAuthentication(
		deps.SessionRepository,
		deleteuser.New(
			deps.Logger,
			deps.UserRepository,
			deps.SessionRepository,
			deps.Now,
		),
	)

	s.ConsumeToken = consumetoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.Now,
	)
	s.SendVerificationEmail = auth.WithAuthentication(
		deps.SessionRepository,
		ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 3},
			s.issueToken(deps),
		),
	)
	s.VerifyEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Minute, Value: 10},
		verifyemail.New(
			deps.Logger,
			deps.TokenEnvelope,
			s.ConsumeToken,
			deps.EventPublisher,
			deps.Now,
		),
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		s.issueToken(deps),
	)
	s.ResetPassword = auth.WithOptionalAuthentication(
		deps.SessionRepository,
		ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 10},
			resetpassword.New(
				deps.Logger,
				deps.UserRepository,
				deps.PasswordHasher,
				deps.TokenEnvelope,
				s.ConsumeToken,
				deps.EventPublisher,
				deps.Now,
			),
		),
	)

	return s
}

func (s *Services) issueToken(deps *deps.Deps) services.Service[issuetoken.Input, issuetoken.Result] {
	return issuetoken.NewWithTokenSending(
		deps.Logger,
		deps.TokenEnvelope,
		deps.TokenSender,
		issuetoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.TokenGenerator,
			deps.TokenTTL,
			deps.Now,
		),
	)
}

package tokensender

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/implementations/email"
	"context"
	"net/url"
)

// Log writes the link to the log instead of delivering it. It is meant for
// local development and test mode.
type Log struct {
	log  logging.Logger
	urls email.URLs
}

func NewLog(log logging.Logger, urls email.URLs) *Log {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Log{log: log, urls: urls}
}

func (s *Log) SendToken(ctx context.Context, notification user.TokenNotification) error {
	var base url.URL
	switch notification.Purpose {
	case user.PurposeVerifyEmail:
		base = s.urls.VerifyEmail
	case user.PurposeResetPassword:
		base = s.urls.ResetPassword
	}
	s.log.Info(
		ctx,
		"Token link for the user.",
		logging.Entry("userID", notification.UserID),
		logging.Entry("email", notification.Email),
		logging.Entry("purpose", notification.Purpose),
		logging.Entry("link", email.Link(base, notification.Token)),
		logging.Entry("expiresAt", notification.ExpiresAt),
	)
	return nil
}

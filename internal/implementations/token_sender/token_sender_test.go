package tokensender

import (
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/implementations/email"
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkIsLogged(t *testing.T) {
	log := logging.NewFakeLogger()
	resetURL, _ := url.Parse("https://example.com/reset")
	sender := NewLog(log, email.URLs{ResetPassword: *resetURL})

	err := sender.SendToken(context.Background(), user.TokenNotification{
		UserID:  1,
		Email:   "test@test.test",
		Purpose: user.PurposeResetPassword,
		Token:   "sealed",
	})

	require.Nil(t, err)
	require.Equal(t, 1, log.CountByLevel(logging.INFO))
	var link interface{}
	for _, entry := range log.Logged[0].Entries {
		if entry.Key == "link" {
			link = entry.Value
		}
	}
	require.Equal(t, "https://example.com/reset?token=sealed", link)
}

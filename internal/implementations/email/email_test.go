package email

import (
	"accounts/internal/core/domain/user"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	base, err := url.Parse("https://example.com/verify?lang=en")
	require.Nil(t, err)

	link := Link(*base, user.SealedToken("a.b+c"))

	parsed, err := url.Parse(link)
	require.Nil(t, err)
	require.Equal(t, "a.b+c", parsed.Query().Get("token"))
	require.Equal(t, "en", parsed.Query().Get("lang"))
	require.Equal(t, "/verify", parsed.Path)
	require.Equal(t, "", base.Query().Get("token"))
}

func TestPrepare(t *testing.T) {
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	verifyURL, _ := url.Parse("https://example.com/verify")
	resetURL, _ := url.Parse("https://example.com/reset")
	sender := NewEmailSender(
		aws.Config{Region: "us-east-1"},
		"noreply@example.com",
		Templates{VerifyEmail: "verify-template", ResetPassword: "reset-template"},
		URLs{VerifyEmail: *verifyURL, ResetPassword: *resetURL},
		func() time.Time { return now },
	)

	template, params, err := sender.prepare(user.TokenNotification{
		UserID:    1,
		Email:     "test@test.test",
		Purpose:   user.PurposeResetPassword,
		Token:     "sealed",
		ExpiresAt: now.Add(time.Hour),
	})
	require.Nil(t, err)
	require.Equal(t, "reset-template", template)
	require.Equal(t, "https://example.com/reset?token=sealed", params.URL)
	require.NotEmpty(t, params.ExpiresIn)

	template, _, err = sender.prepare(user.TokenNotification{Purpose: user.PurposeVerifyEmail})
	require.Nil(t, err)
	require.Equal(t, "verify-template", template)

	_, _, err = sender.prepare(user.TokenNotification{Purpose: user.Purpose("other")})
	require.NotNil(t, err)
}

package user

import (
	c "accounts/internal/core/domain/common"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

func TestNewTokenExpiresAfterTTL(t *testing.T) {
	token := NewToken(TokenValue("test"), PurposeVerifyEmail, NOW, 24*time.Hour)

	require.Equal(t, NOW.Add(24*time.Hour), token.ExpiresAt)
	require.True(t, token.ExpiresAt.After(NOW))
	require.False(t, token.IsExpired(NOW))
	require.False(t, token.IsExpired(token.ExpiresAt))
	require.True(t, token.IsExpired(token.ExpiresAt.Add(time.Nanosecond)))
}

func TestTokenTTLFor(t *testing.T) {
	ttl := TokenTTL{VerifyEmail: 24 * time.Hour, ResetPassword: time.Hour}

	require.Equal(t, 24*time.Hour, ttl.For(PurposeVerifyEmail))
	require.Equal(t, time.Hour, ttl.For(PurposeResetPassword))
	require.Panics(t, func() { ttl.For(Purpose("unknown")) })
}

func TestCheckToken(t *testing.T) {
	stored := NewToken(TokenValue("valid"), PurposeVerifyEmail, NOW, time.Hour)

	cases := []struct {
		id       string
		token    c.Optional[Token]
		value    TokenValue
		purpose  Purpose
		now      time.Time
		expected error
	}{
		{
			id:       "valid",
			token:    c.Some(stored),
			value:    "valid",
			purpose:  PurposeVerifyEmail,
			now:      NOW.Add(time.Minute),
			expected: nil,
		},
		{
			id:       "no token",
			token:    c.None[Token](),
			value:    "valid",
			purpose:  PurposeVerifyEmail,
			now:      NOW,
			expected: ErrInvalidToken,
		},
		{
			id:       "value mismatch",
			token:    c.Some(stored),
			value:    "other",
			purpose:  PurposeVerifyEmail,
			now:      NOW,
			expected: ErrInvalidToken,
		},
		{
			id:       "purpose mismatch",
			token:    c.Some(stored),
			value:    "valid",
			purpose:  PurposeResetPassword,
			now:      NOW,
			expected: ErrInvalidToken,
		},
		{
			id:       "expired",
			token:    c.Some(stored),
			value:    "valid",
			purpose:  PurposeVerifyEmail,
			now:      NOW.Add(2 * time.Hour),
			expected: ErrTokenExpired,
		},
		{
			id:       "mismatch wins over expiry",
			token:    c.Some(stored),
			value:    "other",
			purpose:  PurposeVerifyEmail,
			now:      NOW.Add(2 * time.Hour),
			expected: ErrInvalidToken,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			u := User{ID: 1, Token: testcase.token}
			err := u.CheckToken(testcase.value, testcase.purpose, testcase.now)
			if testcase.expected == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, testcase.expected)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := User{
		ID:           1,
		Email:        c.Email("test@test.test"),
		PasswordHash: PasswordHash("hash"),
		Status:       StatusUnverified,
	}
	require.NoError(t, valid.Validate())

	noEmail := valid
	noEmail.Email = ""
	require.Error(t, noEmail.Validate())

	badStatus := valid
	badStatus.Status = Status("blocked")
	require.Error(t, badStatus.Validate())

	badToken := valid
	badToken.Token = c.Some(Token{Value: "t", Purpose: Purpose("other")})
	require.Error(t, badToken.Validate())
}

func TestSensitiveValuesAreMasked(t *testing.T) {
	require.Equal(t, "***", PasswordHash("hash").String())
	require.Equal(t, "***", RawPassword("password").String())
	require.Equal(t, "***", TokenValue("token").String())
	require.Equal(t, "***", SealedToken("sealed").String())
}

func TestIsActiveOnValue(t *testing.T) {
	require.True(t, User{Status: StatusActive}.IsActive())
	require.False(t, User{Status: StatusUnverified}.IsActive())
}

func TestFakeTokenEnvelopeKeepsTokenValue(t *testing.T) {
	envelope := NewFakeTokenEnvelope()
	token := NewToken(TokenValue("T1"), PurposeVerifyEmail, NOW, time.Hour)

	sealed, err := envelope.Seal(42, token)
	require.Nil(t, err)
	require.Equal(t, SealedToken("42.verify_email.T1"), sealed)

	opened, err := envelope.Open(sealed)
	require.Nil(t, err)
	require.Equal(t, ID(42), opened.UserID)
	require.Equal(t, TokenValue("T1"), opened.Value)
	require.Equal(t, PurposeVerifyEmail, opened.Purpose)
}

package tokenenvelope

import (
	"accounts/internal/core/domain/user"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var TOKEN = user.Token{
	Value:     "VdPxtyc2D9sNz1eZ3dLhQ7xJm4ka0Bf5",
	Purpose:   user.PurposeResetPassword,
	ExpiresAt: time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC),
}

func TestSealAndOpen(t *testing.T) {
	envelope := NewJWT("test-secret", "accounts")

	sealed, err := envelope.Seal(user.ID(42), TOKEN)
	require.Nil(t, err)
	require.NotContains(t, string(sealed), string(TOKEN.Value))

	opened, err := envelope.Open(sealed)
	require.Nil(t, err)
	require.Equal(t, user.ID(42), opened.UserID)
	require.Equal(t, TOKEN.Value, opened.Value)
	require.Equal(t, TOKEN.Purpose, opened.Purpose)
}

func TestOpenRejectsForeignSignature(t *testing.T) {
	sealed, err := NewJWT("other-secret", "accounts").Seal(user.ID(42), TOKEN)
	require.Nil(t, err)

	_, err = NewJWT("test-secret", "accounts").Open(sealed)
	require.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestOpenRejectsForeignIssuer(t *testing.T) {
	sealed, err := NewJWT("test-secret", "other").Seal(user.ID(42), TOKEN)
	require.Nil(t, err)

	_, err = NewJWT("test-secret", "accounts").Open(sealed)
	require.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestOpenRejectsUnexpectedAlgorithm(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "accounts", Subject: "42"},
		Token:            string(TOKEN.Value),
		Purpose:          TOKEN.Purpose,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.Nil(t, err)

	_, err = NewJWT("test-secret", "accounts").Open(user.SealedToken(unsigned))
	require.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestOpenRejectsMalformedClaims(t *testing.T) {
	cases := map[string]claims{
		"subject": {
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "accounts", Subject: "abc"},
			Token:            "t",
			Purpose:          user.PurposeVerifyEmail,
		},
		"token": {
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "accounts", Subject: "1"},
			Purpose:          user.PurposeVerifyEmail,
		},
		"purpose": {
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "accounts", Subject: "1"},
			Token:            "t",
			Purpose:          user.Purpose("other"),
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
			require.Nil(t, err)

			_, err = NewJWT("test-secret", "accounts").Open(user.SealedToken(signed))
			require.ErrorIs(t, err, user.ErrInvalidToken)
		})
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := NewJWT("test-secret", "accounts").Open("garbage")
	require.ErrorIs(t, err, user.ErrInvalidToken)
}

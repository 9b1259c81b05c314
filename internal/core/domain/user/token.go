package user

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"
)

type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"
)

func (p Purpose) IsValid() bool {
	return p == PurposeVerifyEmail || p == PurposeResetPassword
}

type TokenValue string

func (v TokenValue) String() string {
	return "***"
}

func (v TokenValue) Equal(other TokenValue) bool {
	return subtle.ConstantTimeCompare([]byte(v), []byte(other)) == 1
}

type Token struct {
	Value     TokenValue
	Purpose   Purpose
	ExpiresAt time.Time
}

func NewToken(value TokenValue, purpose Purpose, issuedAt time.Time, ttl time.Duration) Token {
	return Token{Value: value, Purpose: purpose, ExpiresAt: issuedAt.Add(ttl)}
}

// IsExpired reports whether the token is no longer valid at the moment.
// A token is still valid exactly at its expiry.
func (t Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type TokenTTL struct {
	VerifyEmail   time.Duration
	ResetPassword time.Duration
}

func (ttl TokenTTL) For(purpose Purpose) time.Duration {
	switch purpose {
	case PurposeVerifyEmail:
		return ttl.VerifyEmail
	case PurposeResetPassword:
		return ttl.ResetPassword
	}
	panic(fmt.Sprintf("unknown token purpose %q", purpose))
}

type TokenGenerator interface {
	GenerateToken() TokenValue
}

// SealedToken is a token value wrapped together with the account ID into a
// signed envelope. This is what leaves the service in links and emails.
type SealedToken string

func (t SealedToken) String() string {
	return "***"
}

type OpenedToken struct {
	UserID  ID
	Value   TokenValue
	Purpose Purpose
}

type TokenEnvelope interface {
	Seal(userID ID, token Token) (SealedToken, error)
	// Open must return ErrInvalidToken for envelopes that were not sealed by it.
	Open(sealed SealedToken) (OpenedToken, error)
}

type TokenNotification struct {
	UserID    ID
	Email     string
	Purpose   Purpose
	Token     SealedToken
	ExpiresAt time.Time
}

type TokenSender interface {
	SendToken(ctx context.Context, notification TokenNotification) error
}

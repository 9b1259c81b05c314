package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type Status string

const (
	StatusUnverified Status = "unverified"
	StatusActive     Status = "active"
)

func (s Status) IsValid() bool {
	return s == StatusUnverified || s == StatusActive
}

type User struct {
	ID           ID
	Email        c.Email
	DisplayName  string
	PasswordHash PasswordHash
	Status       Status
	Token        c.Optional[Token]
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	if !u.Status.IsValid() {
		return e.NewInvalidStateError(fmt.Sprintf("invalid status %q of user %d", u.Status, u.ID))
	}
	if u.Token.IsPresent && !u.Token.Value.Purpose.IsValid() {
		return e.NewInvalidStateError(fmt.Sprintf("invalid token purpose %q of user %d", u.Token.Value.Purpose, u.ID))
	}
	return nil
}

func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// CheckToken reports whether the presented value matches the outstanding token
// of the given purpose and whether that token is still valid at the moment.
func (u *User) CheckToken(value TokenValue, purpose Purpose, now time.Time) error {
	if !u.Token.IsPresent {
		return ErrInvalidToken
	}
	stored := u.Token.Value
	if stored.Purpose != purpose || !stored.Value.Equal(value) {
		return ErrInvalidToken
	}
	if stored.IsExpired(now) {
		return ErrTokenExpired
	}
	return nil
}

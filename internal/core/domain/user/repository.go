package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	DisplayName  string
	PasswordHash PasswordHash
	Status       Status
	Token        c.Optional[Token]
	CreatedAt    time.Time
}

type UpdateUserInput struct {
	ID                  ID
	DoDisplayNameUpdate bool
	DisplayName         string
	At                  time.Time
}

type SetTokenInput struct {
	ID    ID
	Token Token
	At    time.Time
}

// ConsumeTokenInput describes a single-use token redemption. The update
// succeeds only if the account still holds exactly this token and the token
// has not expired at At; the token is cleared in the same write.
type ConsumeTokenInput struct {
	ID           ID
	Value        TokenValue
	Purpose      Purpose
	At           time.Time
	Activate     bool
	PasswordHash c.Optional[PasswordHash]
}

type ClearTokenInput struct {
	ID      ID
	Purpose Purpose
	At      time.Time
}

type SetPasswordInput struct {
	ID           ID
	PasswordHash PasswordHash
	At           time.Time
}

// UserRepository never returns soft-deleted users, they are reported as
// ErrUserDoesNotExist.
type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	Update(ctx context.Context, input UpdateUserInput) (User, error)
	// SetToken overwrites any outstanding token of the user.
	SetToken(ctx context.Context, input SetTokenInput) (User, error)
	// ConsumeToken returns ErrInvalidToken if nothing matched.
	ConsumeToken(ctx context.Context, input ConsumeTokenInput) (User, error)
	ClearToken(ctx context.Context, input ClearTokenInput) error
	SetPassword(ctx context.Context, input SetPasswordInput) error
	Delete(ctx context.Context, id ID, at time.Time) error
}

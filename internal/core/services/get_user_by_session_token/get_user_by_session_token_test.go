package getuserbysessiontoken

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetUserBySessionToken(t *testing.T) {
	ctx := context.Background()
	users := user.NewFakeUserRepository()
	sessions := user.NewFakeSessionRepository(users)
	u, err := users.Create(ctx, user.CreateUserInput{
		Email:        c.Email("test@test.test"),
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    time.Now(),
	})
	require.Nil(t, err)
	require.Nil(t, sessions.Create(ctx, user.CreateSessionInput{UserID: u.ID, Token: "token"}))

	service := New(logging.NewFakeLogger(), sessions)

	result, err := service.Run(ctx, Input{Token: "token"})
	require.Nil(t, err)
	require.Equal(t, u.ID, result.User.ID)

	_, err = service.Run(ctx, Input{Token: "unknown"})
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
}

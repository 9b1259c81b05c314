package auth

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const SESSION_TOKEN = user.SessionToken("test-session-token")

type input struct {
	User c.Optional[user.User]
}

func (i input) WithAuthenticatedUser(u user.User) Input {
	i.User = c.Some(u)
	return i
}

type result struct {
	User c.Optional[user.User]
}

type stubService struct {
	Calls int
}

func (s *stubService) Run(ctx context.Context, input input) (result, error) {
	s.Calls++
	return result{User: input.User}, nil
}

func setUp(t *testing.T) (*user.FakeSessionRepository, user.User) {
	t.Helper()
	users := user.NewFakeUserRepository()
	sessions := user.NewFakeSessionRepository(users)
	u, err := users.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewEmail("test@test.test"),
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    time.Now(),
	})
	require.Nil(t, err)
	err = sessions.Create(context.Background(), user.CreateSessionInput{UserID: u.ID, Token: SESSION_TOKEN})
	require.Nil(t, err)
	return sessions, u
}

func TestWithAuthentication(t *testing.T) {
	sessions, u := setUp(t)
	inner := &stubService{}
	service := WithAuthentication[input, result](sessions, inner)

	ctx := context.WithValue(context.Background(), CONTEXT_AUTH_TOKEN_KEY, SESSION_TOKEN)
	res, err := service.Run(ctx, input{})
	require.Nil(t, err)
	require.True(t, res.User.IsPresent)
	require.Equal(t, u.ID, res.User.Value.ID)

	_, err = service.Run(context.Background(), input{})
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)

	ctx = context.WithValue(context.Background(), CONTEXT_AUTH_TOKEN_KEY, user.SessionToken("unknown"))
	_, err = service.Run(ctx, input{})
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
	require.Equal(t, 1, inner.Calls)
}

func TestWithOptionalAuthentication(t *testing.T) {
	sessions, u := setUp(t)
	inner := &stubService{}
	service := WithOptionalAuthentication[input, result](sessions, inner)

	ctx := context.WithValue(context.Background(), CONTEXT_AUTH_TOKEN_KEY, SESSION_TOKEN)
	res, err := service.Run(ctx, input{})
	require.Nil(t, err)
	require.True(t, res.User.IsPresent)
	require.Equal(t, u.ID, res.User.Value.ID)

	res, err = service.Run(context.Background(), input{})
	require.Nil(t, err)
	require.False(t, res.User.IsPresent)

	ctx = context.WithValue(context.Background(), CONTEXT_AUTH_TOKEN_KEY, user.SessionToken("unknown"))
	res, err = service.Run(ctx, input{})
	require.Nil(t, err)
	require.False(t, res.User.IsPresent)
	require.Equal(t, 3, inner.Calls)
}

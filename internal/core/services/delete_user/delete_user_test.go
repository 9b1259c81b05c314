package deleteuser

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	SESSION_TOKEN = user.SessionToken("test-session-token")
	OTHER_SESSION = user.SessionToken("test-other-session-token")
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	UserRepository    *user.FakeUserRepository
	SessionRepository *user.FakeSessionRepository
	Service           services.Service[Input, Result]
	User              user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.SessionRepository = user.NewFakeSessionRepository(suite.UserRepository)
	suite.Service = auth.WithAuthentication[Input, Result](
		suite.SessionRepository,
		New(
			suite.Logger,
			suite.UserRepository,
			suite.SessionRepository,
			func() time.Time { return NOW },
		),
	)

	ctx := context.Background()
	u, err := suite.UserRepository.Create(ctx, user.CreateUserInput{
		Email:        c.Email("test@test.test"),
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.User = u
	for _, token := range []user.SessionToken{SESSION_TOKEN, OTHER_SESSION} {
		suite.Require().Nil(suite.SessionRepository.Create(ctx, user.CreateSessionInput{UserID: u.ID, Token: token}))
	}
}

func TestDeleteUserService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	ctx := context.WithValue(context.Background(), auth.CONTEXT_AUTH_TOKEN_KEY, SESSION_TOKEN)
	_, err := s.Service.Run(ctx, Input{Token: SESSION_TOKEN})

	assert := s.Require()
	assert.Nil(err)
	_, err = s.UserRepository.GetByID(context.Background(), s.User.ID)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, ok := s.SessionRepository.UserIdByToken[SESSION_TOKEN]
	assert.False(ok)
	_, err = s.SessionRepository.GetUserByToken(context.Background(), OTHER_SESSION)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	assert.True(s.UserRepository.Users[0].IsDeleted)
}

func (s *testSuite) TestUnauthenticated() {
	_, err := s.Service.Run(context.Background(), Input{})

	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	s.Require().False(s.UserRepository.Users[0].IsDeleted)
}

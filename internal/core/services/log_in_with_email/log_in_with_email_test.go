package loginwithemail

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = c.Email("test@test.test")
	PASSWORD      = user.RawPassword("test-password")
	SESSION_TOKEN = "test-session-token"
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	UserRepository    *user.FakeUserRepository
	SessionRepository *user.FakeSessionRepository
	PasswordHasher    *user.FakePasswordHasher
	Service           services.Service[Input, Result]
	User              user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.SessionRepository = user.NewFakeSessionRepository(suite.UserRepository)
	suite.PasswordHasher = user.NewFakePasswordHasher()
	suite.Service = New(
		suite.Logger,
		suite.UserRepository,
		suite.SessionRepository,
		suite.PasswordHasher,
		user.NewFakeSessionTokenGenerator(SESSION_TOKEN),
		func() time.Time { return NOW },
	)

	hash, _ := suite.PasswordHasher.HashPassword(PASSWORD)
	u, err := suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: hash,
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.User = u
}

func TestLogInWithEmailService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccessForUnverifiedUser() {
	result, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(user.SessionToken(SESSION_TOKEN), result.Token)
	assert.Equal(s.User.ID, result.User.ID)
	assert.False(result.User.IsActive())
	assert.Equal(s.User.ID, s.SessionRepository.UserIdByToken[result.Token])
}

func (s *testSuite) TestInvalidPassword() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: "invalid"})

	s.Require().ErrorIs(err, user.ErrInvalidCredentials)
	s.Require().Empty(s.SessionRepository.UserIdByToken)
}

func (s *testSuite) TestUnknownEmail() {
	_, err := s.Service.Run(context.Background(), Input{Email: "unknown@test.test", Password: PASSWORD})

	s.Require().ErrorIs(err, user.ErrInvalidCredentials)
}

func (s *testSuite) TestDeletedUser() {
	s.Require().Nil(s.UserRepository.Delete(context.Background(), s.User.ID, NOW))

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	s.Require().ErrorIs(err, user.ErrInvalidCredentials)
}

func (s *testSuite) TestRateLimitKey() {
	s.Equal("log-in-with-email::test@test.test", Input{Email: EMAIL}.GetRateLimitKey())
}

package issuetoken

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

const EMAIL = c.Email("test@test.test")

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

var TTL = user.TokenTTL{VerifyEmail: 24 * time.Hour, ResetPassword: time.Hour}

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	TokenGenerator *user.FakeTokenGenerator
	Envelope       *user.FakeTokenEnvelope
	Sender         *user.FakeTokenSender
	Service        services.Service[Input, Result]
	User           user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.TokenGenerator = user.NewFakeTokenGenerator("first", "second")
	suite.Envelope = user.NewFakeTokenEnvelope()
	suite.Sender = user.NewFakeTokenSender()
	suite.Service = NewWithTokenSending(
		suite.Logger,
		suite.Envelope,
		suite.Sender,
		New(
			suite.Logger,
			suite.UserRepository,
			suite.TokenGenerator,
			TTL,
			func() time.Time { return NOW },
		),
	)

	u, err := suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.User = u
}

func TestIssueTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestExpiryIsInTheFutureByConfiguredDuration() {
	for purpose, ttl := range map[user.Purpose]time.Duration{
		user.PurposeVerifyEmail:   24 * time.Hour,
		user.PurposeResetPassword: time.Hour,
	} {
		result, err := s.Service.Run(context.Background(), Input{Ref: ByID(s.User.ID), Purpose: purpose})

		assert := s.Require()
		assert.Nil(err)
		assert.Equal(purpose, result.Token.Purpose)
		assert.True(result.Token.ExpiresAt.After(NOW))
		assert.Equal(NOW.Add(ttl), result.Token.ExpiresAt)
	}
}

func (s *testSuite) TestTokenIsStoredOnTheAccount() {
	result, err := s.Service.Run(context.Background(), Input{Ref: ByEmail(EMAIL), Purpose: user.PurposeResetPassword})

	assert := s.Require()
	assert.Nil(err)
	stored, err := s.UserRepository.GetByID(context.Background(), s.User.ID)
	assert.Nil(err)
	assert.True(stored.Token.IsPresent)
	assert.Equal(result.Token, stored.Token.Value)
	assert.Equal(user.TokenValue("first"), stored.Token.Value.Value)
}

func (s *testSuite) TestSecondIssuanceOverwritesTheFirst() {
	ctx := context.Background()
	_, err := s.Service.Run(ctx, Input{Ref: ByID(s.User.ID), Purpose: user.PurposeVerifyEmail})
	s.Require().Nil(err)
	_, err = s.Service.Run(ctx, Input{Ref: ByID(s.User.ID), Purpose: user.PurposeResetPassword})
	s.Require().Nil(err)

	stored, err := s.UserRepository.GetByID(ctx, s.User.ID)
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(user.TokenValue("second"), stored.Token.Value.Value)
	assert.Equal(user.PurposeResetPassword, stored.Token.Value.Purpose)
}

func (s *testSuite) TestTokenIsSealedAndSent() {
	result, err := s.Service.Run(context.Background(), Input{Ref: ByID(s.User.ID), Purpose: user.PurposeVerifyEmail})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(1, s.Sender.SentCount())
	sent := s.Sender.LastSent()
	assert.Equal(s.User.ID, sent.UserID)
	assert.Equal(string(EMAIL), sent.Email)
	assert.Equal(user.PurposeVerifyEmail, sent.Purpose)
	assert.Equal(result.Sealed, sent.Token)
	assert.Equal(result.Token.ExpiresAt, sent.ExpiresAt)

	opened, err := s.Envelope.Open(result.Sealed)
	assert.Nil(err)
	assert.Equal(s.User.ID, opened.UserID)
	assert.True(opened.Value.Equal(result.Token.Value))
}

func (s *testSuite) TestUnknownAccount() {
	for _, ref := range []Ref{ByID(s.User.ID + 100), ByEmail("unknown@test.test")} {
		_, err := s.Service.Run(context.Background(), Input{Ref: ref, Purpose: user.PurposeVerifyEmail})
		s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	}
	s.Require().Equal(0, s.Sender.SentCount())
}

func (s *testSuite) TestDeletedAccount() {
	ctx := context.Background()
	s.Require().Nil(s.UserRepository.Delete(ctx, s.User.ID, NOW))

	_, err := s.Service.Run(ctx, Input{Ref: ByID(s.User.ID), Purpose: user.PurposeVerifyEmail})
	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.Service.Run(ctx, Input{Ref: ByEmail(EMAIL), Purpose: user.PurposeVerifyEmail})
	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	s.Require().Equal(0, s.Sender.SentCount())
}

func (s *testSuite) TestUnknownPurpose() {
	_, err := s.Service.Run(context.Background(), Input{Ref: ByID(s.User.ID), Purpose: user.Purpose("other")})
	s.Require().ErrorIs(err, user.ErrInvalidRequest)
}

func (s *testSuite) TestSendingFailureIsReported() {
	s.Sender.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Ref: ByID(s.User.ID), Purpose: user.PurposeVerifyEmail})

	assert := s.Require()
	assert.NotNil(err)
	assert.Equal(1, s.Logger.CountByLevel(logging.ERROR))
	stored, err := s.UserRepository.GetByID(context.Background(), s.User.ID)
	assert.Nil(err)
	assert.True(stored.Token.IsPresent)
}

func (s *testSuite) TestRateLimitKey() {
	s.Equal(
		"issue-token::reset_password::email:test@test.test",
		Input{Ref: ByEmail(EMAIL), Purpose: user.PurposeResetPassword}.GetRateLimitKey(),
	)
	input := Input{Purpose: user.PurposeVerifyEmail}.WithAuthenticatedUser(s.User).(Input)
	s.Equal("issue-token::verify_email::id:1", input.GetRateLimitKey())
}

// Package usertest holds the behaviour every user.UserRepository must have.
package usertest

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = c.Email("test@test.test")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

// RepositorySuite must be embedded into a store specific suite which sets
// NewRepository. NewRepository is called before each test and must return a
// repository backed by an empty store.
type RepositorySuite struct {
	suite.Suite
	NewRepository func() user.UserRepository
	Repo          user.UserRepository
}

func (s *RepositorySuite) SetupTest() {
	s.Repo = s.NewRepository()
}

func (s *RepositorySuite) create(email c.Email, token c.Optional[user.Token]) user.User {
	s.T().Helper()
	u, err := s.Repo.Create(context.Background(), user.CreateUserInput{
		Email:        email,
		DisplayName:  "Test",
		PasswordHash: PASSWORD_HASH,
		Status:       user.StatusUnverified,
		Token:        token,
		CreatedAt:    NOW,
	})
	s.Require().Nil(err)
	return u
}

func (s *RepositorySuite) token(value string, purpose user.Purpose) user.Token {
	return user.NewToken(user.TokenValue(value), purpose, NOW, time.Hour)
}

func (s *RepositorySuite) TestCreate() {
	token := s.token("test-token", user.PurposeVerifyEmail)
	u := s.create(EMAIL, c.Some(token))

	assert := s.Require()
	assert.NotEqual(user.ID(0), u.ID)
	assert.Equal(EMAIL, u.Email)
	assert.Equal("Test", u.DisplayName)
	assert.Equal(PASSWORD_HASH, u.PasswordHash)
	assert.Equal(user.StatusUnverified, u.Status)
	assert.Equal(c.Some(token), u.Token)
	assert.False(u.IsDeleted)
	assert.Equal(NOW, u.CreatedAt)
	assert.Equal(NOW, u.UpdatedAt)

	other := s.create("other@test.test", c.None[user.Token]())
	assert.NotEqual(u.ID, other.ID)
	assert.False(other.Token.IsPresent)
}

func (s *RepositorySuite) TestCreateDuplicateEmail() {
	s.create(EMAIL, c.None[user.Token]())

	_, err := s.Repo.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	s.Require().ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (s *RepositorySuite) TestCreateWithEmailOfDeletedUser() {
	u := s.create(EMAIL, c.None[user.Token]())
	s.Require().Nil(s.Repo.Delete(context.Background(), u.ID, NOW))

	other := s.create(EMAIL, c.None[user.Token]())
	s.Require().NotEqual(u.ID, other.ID)
}

func (s *RepositorySuite) TestGet() {
	ctx := context.Background()
	u := s.create(EMAIL, c.Some(s.token("test-token", user.PurposeResetPassword)))

	assert := s.Require()
	byID, err := s.Repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.Equal(u, byID)

	byEmail, err := s.Repo.GetByEmail(ctx, EMAIL)
	assert.Nil(err)
	assert.Equal(u, byEmail)

	_, err = s.Repo.GetByID(ctx, u.ID+1000)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.Repo.GetByEmail(ctx, "unknown@test.test")
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *RepositorySuite) TestUpdate() {
	ctx := context.Background()
	u := s.create(EMAIL, c.None[user.Token]())
	at := NOW.Add(time.Hour)

	assert := s.Require()
	updated, err := s.Repo.Update(ctx, user.UpdateUserInput{ID: u.ID, DisplayName: "Ignored", At: at})
	assert.Nil(err)
	assert.Equal("Test", updated.DisplayName)

	updated, err = s.Repo.Update(ctx, user.UpdateUserInput{
		ID:                  u.ID,
		DoDisplayNameUpdate: true,
		DisplayName:         "New Name",
		At:                  at,
	})
	assert.Nil(err)
	assert.Equal("New Name", updated.DisplayName)
	assert.Equal(at, updated.UpdatedAt)

	_, err = s.Repo.Update(ctx, user.UpdateUserInput{ID: u.ID + 1000, At: at})
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *RepositorySuite) TestSetTokenOverwrites() {
	ctx := context.Background()
	u := s.create(EMAIL, c.Some(s.token("first", user.PurposeVerifyEmail)))
	second := s.token("second", user.PurposeResetPassword)

	assert := s.Require()
	updated, err := s.Repo.SetToken(ctx, user.SetTokenInput{ID: u.ID, Token: second, At: NOW})
	assert.Nil(err)
	assert.Equal(c.Some(second), updated.Token)

	stored, err := s.Repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.Equal(c.Some(second), stored.Token)

	_, err = s.Repo.SetToken(ctx, user.SetTokenInput{ID: u.ID + 1000, Token: second, At: NOW})
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *RepositorySuite) TestConsumeTokenActivates() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeVerifyEmail)
	u := s.create(EMAIL, c.Some(token))
	input := user.ConsumeTokenInput{
		ID:       u.ID,
		Value:    token.Value,
		Purpose:  token.Purpose,
		At:       NOW.Add(time.Minute),
		Activate: true,
	}

	assert := s.Require()
	consumed, err := s.Repo.ConsumeToken(ctx, input)
	assert.Nil(err)
	assert.Equal(user.StatusActive, consumed.Status)
	assert.False(consumed.Token.IsPresent)
	assert.Equal(PASSWORD_HASH, consumed.PasswordHash)

	_, err = s.Repo.ConsumeToken(ctx, input)
	assert.ErrorIs(err, user.ErrInvalidToken)
}

func (s *RepositorySuite) TestConsumeTokenSetsPassword() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeResetPassword)
	u := s.create(EMAIL, c.Some(token))

	assert := s.Require()
	consumed, err := s.Repo.ConsumeToken(ctx, user.ConsumeTokenInput{
		ID:           u.ID,
		Value:        token.Value,
		Purpose:      token.Purpose,
		At:           token.ExpiresAt,
		PasswordHash: c.Some(user.PasswordHash("new-hash")),
	})
	assert.Nil(err)
	assert.Equal(user.PasswordHash("new-hash"), consumed.PasswordHash)
	assert.Equal(user.StatusUnverified, consumed.Status)
	assert.False(consumed.Token.IsPresent)
}

func (s *RepositorySuite) TestConsumeTokenMismatch() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeResetPassword)
	u := s.create(EMAIL, c.Some(token))

	cases := map[string]user.ConsumeTokenInput{
		"value":   {ID: u.ID, Value: "other", Purpose: token.Purpose, At: NOW},
		"purpose": {ID: u.ID, Value: token.Value, Purpose: user.PurposeVerifyEmail, At: NOW},
		"expired": {ID: u.ID, Value: token.Value, Purpose: token.Purpose, At: token.ExpiresAt.Add(time.Second)},
		"user":    {ID: u.ID + 1000, Value: token.Value, Purpose: token.Purpose, At: NOW},
	}
	for name, input := range cases {
		s.Run(name, func() {
			_, err := s.Repo.ConsumeToken(ctx, input)
			s.Require().ErrorIs(err, user.ErrInvalidToken)
		})
	}

	stored, err := s.Repo.GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.Require().Equal(c.Some(token), stored.Token)
}

func (s *RepositorySuite) TestConcurrentConsumeTokenSucceedsOnce() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeResetPassword)
	u := s.create(EMAIL, c.Some(token))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(ix int) {
			defer wg.Done()
			_, errs[ix] = s.Repo.ConsumeToken(ctx, user.ConsumeTokenInput{
				ID:           u.ID,
				Value:        token.Value,
				Purpose:      token.Purpose,
				At:           NOW,
				PasswordHash: c.Some(user.PasswordHash("new-hash")),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().ErrorIs(err, user.ErrInvalidToken)
	}
	s.Require().Equal(1, succeeded)
}

func (s *RepositorySuite) TestClearTokenOfPurpose() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeResetPassword)
	u := s.create(EMAIL, c.Some(token))

	assert := s.Require()
	assert.Nil(s.Repo.ClearToken(ctx, user.ClearTokenInput{ID: u.ID, Purpose: user.PurposeVerifyEmail, At: NOW}))
	stored, err := s.Repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.True(stored.Token.IsPresent)

	assert.Nil(s.Repo.ClearToken(ctx, user.ClearTokenInput{ID: u.ID, Purpose: user.PurposeResetPassword, At: NOW}))
	stored, err = s.Repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.False(stored.Token.IsPresent)
}

func (s *RepositorySuite) TestSetPassword() {
	ctx := context.Background()
	u := s.create(EMAIL, c.None[user.Token]())

	assert := s.Require()
	err := s.Repo.SetPassword(ctx, user.SetPasswordInput{ID: u.ID, PasswordHash: "new-hash", At: NOW})
	assert.Nil(err)
	stored, err := s.Repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.Equal(user.PasswordHash("new-hash"), stored.PasswordHash)

	err = s.Repo.SetPassword(ctx, user.SetPasswordInput{ID: u.ID + 1000, PasswordHash: "new-hash", At: NOW})
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *RepositorySuite) TestDeleteHidesUser() {
	ctx := context.Background()
	token := s.token("test-token", user.PurposeVerifyEmail)
	u := s.create(EMAIL, c.Some(token))

	assert := s.Require()
	assert.Nil(s.Repo.Delete(ctx, u.ID, NOW))

	_, err := s.Repo.GetByID(ctx, u.ID)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.Repo.GetByEmail(ctx, EMAIL)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.Repo.SetToken(ctx, user.SetTokenInput{ID: u.ID, Token: token, At: NOW})
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.Repo.ConsumeToken(ctx, user.ConsumeTokenInput{
		ID:       u.ID,
		Value:    token.Value,
		Purpose:  token.Purpose,
		At:       NOW,
		Activate: true,
	})
	assert.ErrorIs(err, user.ErrInvalidToken)
	assert.ErrorIs(s.Repo.Delete(ctx, u.ID, NOW), user.ErrUserDoesNotExist)
}

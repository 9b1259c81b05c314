package usertest

import (
	"accounts/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestFakeUserRepository(t *testing.T) {
	suite.Run(t, &RepositorySuite{
		NewRepository: func() user.UserRepository { return user.NewFakeUserRepository() },
	})
}

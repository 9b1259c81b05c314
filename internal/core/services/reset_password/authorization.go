package resetpassword

import (
	"accounts/internal/core/domain/user"
)

// Authorization is either BySession or ByToken.
type Authorization interface {
	isAuthorization()
}

// BySession is a logged-in password change. The current password must be
// presented again.
type BySession struct {
	User            user.User
	CurrentPassword user.RawPassword
}

func (BySession) isAuthorization() {}

// ByToken is a forgotten password reset with a token received by email.
type ByToken struct {
	Token user.SealedToken
}

func (ByToken) isAuthorization() {}

// Authorize picks the authorization mode of the request. A session wins over
// a token, the token fields are ignored then.
func Authorize(input Input) (Authorization, error) {
	if input.User.IsPresent {
		if input.CurrentPassword == "" {
			return nil, user.ErrMissingFields
		}
		return BySession{User: input.User.Value, CurrentPassword: input.CurrentPassword}, nil
	}
	if input.Token != "" {
		return ByToken{Token: input.Token}, nil
	}
	return nil, user.ErrInvalidRequest
}

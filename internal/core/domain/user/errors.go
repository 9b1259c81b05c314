package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrUserDoesNotExist    = errors.New("user does not exist")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionDoesNotExist = errors.New("session does not exist")
)

var (
	ErrUserAlreadyActive = errors.New("user is already verified")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrMissingFields     = errors.New("missing required fields")
	ErrSamePassword      = errors.New("current password and new password are the same")
	ErrInvalidRequest    = errors.New("invalid request")
)

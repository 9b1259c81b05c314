package response

import (
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"errors"
	"net/http"
)

type outcome struct {
	err     error
	status  int
	message string
}

var outcomes = []outcome{
	{user.ErrUserDoesNotExist, http.StatusNotFound, "account not found"},
	{user.ErrUserAlreadyActive, http.StatusConflict, "account is already verified"},
	{user.ErrEmailAlreadyExists, http.StatusConflict, "email already exists"},
	{user.ErrInvalidToken, http.StatusBadRequest, "invalid token"},
	{user.ErrTokenExpired, http.StatusBadRequest, "token expired"},
	{user.ErrMissingFields, http.StatusBadRequest, "missing required fields"},
	{user.ErrSamePassword, http.StatusBadRequest, "new password must differ from the current one"},
	{user.ErrInvalidCredentials, http.StatusBadRequest, "invalid password"},
	{user.ErrInvalidRequest, http.StatusBadRequest, "invalid request"},
	{ratelimiter.ErrRateLimitExceeded, http.StatusTooManyRequests, "rate limit exceeded"},
	{user.ErrSessionDoesNotExist, http.StatusUnauthorized, "invalid authentication token"},
}

// StatusFor maps a service result to an HTTP status. Unknown errors are
// internal errors.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.status
		}
	}
	return http.StatusInternalServerError
}

func MessageFor(err error) string {
	if err == nil {
		return http.StatusText(http.StatusOK)
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.message
		}
	}
	return "internal error"
}

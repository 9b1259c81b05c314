package verifyemail

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	verifyemail "accounts/internal/core/services/verify_email"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyEmail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"already verified", user.ErrUserAlreadyActive, http.StatusConflict},
		{"invalid token", user.ErrInvalidToken, http.StatusBadRequest},
		{"expired token", user.ErrTokenExpired, http.StatusBadRequest},
		{"missing token", user.ErrMissingFields, http.StatusBadRequest},
		{"unknown account", user.ErrUserDoesNotExist, http.StatusNotFound},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, testcase := range cases {
		t.Run(testcase.name, func(t *testing.T) {
			service := services.NewFakeService[verifyemail.Input](
				verifyemail.Result{User: user.User{ID: 1, Status: user.StatusActive}},
				testcase.err,
			)
			rw := httptest.NewRecorder()
			New(service).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/auth/verify?token=sealed", nil))

			require.Equal(t, testcase.status, rw.Code)
			require.Equal(t, verifyemail.Input{Token: "sealed", ClientAddr: "192.0.2.1"}, service.LastInput())
		})
	}
}

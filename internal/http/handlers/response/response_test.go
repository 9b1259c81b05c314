package response

import (
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{user.ErrUserDoesNotExist, http.StatusNotFound},
		{user.ErrUserAlreadyActive, http.StatusConflict},
		{user.ErrEmailAlreadyExists, http.StatusConflict},
		{user.ErrInvalidToken, http.StatusBadRequest},
		{user.ErrTokenExpired, http.StatusBadRequest},
		{user.ErrMissingFields, http.StatusBadRequest},
		{user.ErrSamePassword, http.StatusBadRequest},
		{user.ErrInvalidCredentials, http.StatusBadRequest},
		{user.ErrInvalidRequest, http.StatusBadRequest},
		{ratelimiter.ErrRateLimitExceeded, http.StatusTooManyRequests},
		{user.ErrSessionDoesNotExist, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", user.ErrTokenExpired), http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, testcase := range cases {
		t.Run(fmt.Sprintf("%v", testcase.err), func(t *testing.T) {
			require.Equal(t, testcase.status, StatusFor(testcase.err))
		})
	}
}

func TestRenderServiceError(t *testing.T) {
	rw := httptest.NewRecorder()
	RenderServiceError(rw, user.ErrUserAlreadyActive)

	require.Equal(t, http.StatusConflict, rw.Code)
	require.Equal(t, "application/json", rw.Header().Get("Content-Type"))
	require.JSONEq(t, `{"status":409,"data":null,"message":"account is already verified"}`, rw.Body.String())
}

func TestRenderInternalErrorHidesDetails(t *testing.T) {
	rw := httptest.NewRecorder()
	RenderServiceError(rw, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rw.Code)
	require.JSONEq(t, `{"status":500,"data":null,"message":"internal error"}`, rw.Body.String())
}

func TestRender(t *testing.T) {
	rw := httptest.NewRecorder()
	Render(rw, map[string]string{"token": "test"}, http.StatusCreated)

	envelope := Envelope{}
	require.Nil(t, json.Unmarshal(rw.Body.Bytes(), &envelope))
	require.Equal(t, http.StatusCreated, rw.Code)
	require.Equal(t, http.StatusCreated, envelope.Status)
	require.Equal(t, "Created", envelope.Message)
	require.Equal(t, map[string]any{"token": "test"}, envelope.Data)
}

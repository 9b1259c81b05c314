package signupwithemail

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	signupwithemail "accounts/internal/core/services/sign_up_with_email"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	return rw
}

func TestSignUp(t *testing.T) {
	service := services.NewFakeService[signupwithemail.Input](signupwithemail.Result{
		User:   user.User{ID: 1, Email: "test@test.test", DisplayName: "John", Status: user.StatusUnverified},
		Sealed: "sealed",
	}, nil)

	rw := serve(New(service, false), `{"email":" Test@Test.test ","password":"12345678","display_name":"<b>John</b>"}`)

	require.Equal(t, http.StatusCreated, rw.Code)
	require.Empty(t, rw.Header().Get(TEST_TOKEN_HEADER))
	require.Contains(t, rw.Body.String(), `"status":"unverified"`)
	require.Equal(t, signupwithemail.Input{
		Email:       c.Email("test@test.test"),
		Password:    "12345678",
		DisplayName: "John",
	}, service.LastInput())
}

func TestSignUpInTestModeExposesToken(t *testing.T) {
	service := services.NewFakeService[signupwithemail.Input](signupwithemail.Result{Sealed: "sealed"}, nil)

	rw := serve(New(service, true), `{"email":"test@test.test","password":"12345678"}`)

	require.Equal(t, http.StatusCreated, rw.Code)
	require.Equal(t, "sealed", rw.Header().Get(TEST_TOKEN_HEADER))
}

func TestSignUpValidation(t *testing.T) {
	cases := map[string]string{
		"malformed":      `{"email":`,
		"invalid email":  `{"email":"test","password":"12345678"}`,
		"short password": `{"email":"test@test.test","password":"12345"}`,
		"no password":    `{"email":"test@test.test"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			service := services.NewFakeService[signupwithemail.Input](signupwithemail.Result{}, nil)
			rw := serve(New(service, false), body)
			require.Equal(t, http.StatusBadRequest, rw.Code)
			require.Empty(t, service.Inputs)
		})
	}
}

func TestSignUpEmailExists(t *testing.T) {
	service := services.NewFakeService[signupwithemail.Input](signupwithemail.Result{}, user.ErrEmailAlreadyExists)

	rw := serve(New(service, false), `{"email":"test@test.test","password":"12345678"}`)

	require.Equal(t, http.StatusConflict, rw.Code)
	require.JSONEq(t, `{"status":409,"data":null,"message":"email already exists"}`, rw.Body.String())
}

func TestSignUpAcceptsSixCharacterPassword(t *testing.T) {
	service := services.NewFakeService[signupwithemail.Input](signupwithemail.Result{}, nil)

	rw := serve(New(service, false), `{"email":"test@test.test","password":"123456"}`)

	require.Equal(t, http.StatusCreated, rw.Code)
	require.Equal(t, user.RawPassword("123456"), service.LastInput().Password)
}

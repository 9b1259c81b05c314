package updateuser

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	service "accounts/internal/core/services/update_user"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodPatch, "/profile/me", strings.NewReader(body)))
	return rw
}

func TestUpdateUser(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		status   int
		expected *service.Input
	}{
		{"no changes", `{}`, http.StatusOK, &service.Input{}},
		{"display name", `{"display_name":"John"}`, http.StatusOK, &service.Input{DoDisplayNameUpdate: true, DisplayName: "John"}},
		{"sanitized", `{"display_name":"<i>John</i> "}`, http.StatusOK, &service.Input{DoDisplayNameUpdate: true, DisplayName: "John"}},
		{"empty after sanitizing", `{"display_name":"<script>x</script>"}`, http.StatusBadRequest, nil},
		{"too long", `{"display_name":"` + strings.Repeat("x", 129) + `"}`, http.StatusBadRequest, nil},
	}
	for _, testcase := range cases {
		t.Run(testcase.name, func(t *testing.T) {
			s := services.NewFakeService[service.Input](service.Result{User: user.User{ID: 1}}, nil)
			rw := serve(New(s), testcase.body)

			require.Equal(t, testcase.status, rw.Code)
			if testcase.expected == nil {
				require.Empty(t, s.Inputs)
				return
			}
			require.Equal(t, *testcase.expected, s.LastInput())
		})
	}
}

func TestUpdateUserUnauthenticated(t *testing.T) {
	s := services.NewFakeService[service.Input](service.Result{}, user.ErrUserDoesNotExist)

	rw := serve(New(s), `{}`)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

package sendverificationemail

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	issuetoken "accounts/internal/core/services/issue_token"
	"accounts/internal/http/handlers/response"
	"errors"
	"net/http"
)

const TEST_TOKEN_HEADER = "x-test-token"

type Handler struct {
	service    services.Service[issuetoken.Input, issuetoken.Result]
	isTestMode bool
}

// New expects a service which authenticates the request, the account to
// verify is the session user.
func New(
	service services.Service[issuetoken.Input, issuetoken.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), issuetoken.Input{Purpose: user.PurposeVerifyEmail})
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUnauthorized(rw)
		return
	}
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	if h.isTestMode {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.Sealed))
	}
	response.Render(rw, nil, http.StatusOK)
}

package logout

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/services"
	logout "accounts/internal/core/services/log_out"
	"accounts/internal/http/handlers/auth"
	"accounts/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[logout.Input, logout.Result]
}

func New(
	service services.Service[logout.Input, logout.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token, ok := auth.ParseToken(r)
	if !ok {
		response.RenderUnauthorized(rw)
		return
	}
	_, err := h.service.Run(r.Context(), logout.Input{Token: token})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}
	response.Render(rw, nil, http.StatusOK)
}

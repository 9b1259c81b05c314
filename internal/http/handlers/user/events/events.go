package events

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	s "accounts/internal/core/services/get_user_by_session_token"
	"accounts/internal/http/handlers/auth"
	"accounts/internal/http/handlers/response"
	accountevents "accounts/internal/implementations/account_events"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/r3labs/sse/v2"
)

// Handler streams account events. EventSource can't send headers, so the
// session token comes in the URL.
type Handler struct {
	log       logging.Logger
	service   services.Service[s.Input, s.Result]
	sseServer *sse.Server
}

func New(
	log logging.Logger,
	sseServer *sse.Server,
	service services.Service[s.Input, s.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{log: log, sseServer: sseServer, service: service}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "sessionToken")
	if token == "" || len(token) > auth.AUTH_TOKEN_MAX_LEN {
		response.RenderUnauthorized(rw)
		return
	}

	result, err := h.service.Run(r.Context(), s.Input{Token: user.SessionToken(token)})
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUnauthorized(rw)
		return
	}
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	streamID := r.URL.Query().Get("stream")
	if streamID != accountevents.StreamID(result.User.ID) {
		response.RenderError(rw, "invalid stream", http.StatusBadRequest)
		return
	}

	go func() {
		<-r.Context().Done()
		h.log.Info(
			r.Context(),
			"Unsubscribed from account events.",
			logging.Entry("userID", result.User.ID),
		)
		h.sseServer.RemoveStream(streamID)
	}()

	h.sseServer.CreateStream(streamID)
	h.log.Info(
		r.Context(),
		"Subscribed to account events.",
		logging.Entry("userID", result.User.ID),
		logging.Entry("streamID", streamID),
	)
	h.sseServer.ServeHTTP(rw, r)
}

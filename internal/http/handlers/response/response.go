package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
}

func RenderInvalidRequestData(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

// RenderValidationError renders field errors of a request body.
func RenderValidationError(rw http.ResponseWriter, err error) {
	write(rw, Envelope{Status: http.StatusBadRequest, Data: err, Message: "invalid request data"})
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	write(rw, Envelope{Status: status, Message: msg})
}

// RenderServiceError renders an error returned by a service.
func RenderServiceError(rw http.ResponseWriter, err error) {
	RenderError(rw, MessageFor(err), StatusFor(err))
}

func Render(rw http.ResponseWriter, data any, status int) {
	write(rw, Envelope{Status: status, Data: data, Message: http.StatusText(status)})
}

func write(rw http.ResponseWriter, envelope Envelope) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(envelope)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(envelope.Status)
	rw.Write(content)
}

package accountevents

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/r3labs/sse/v2"
)

// SSE publishes account events to the stream named after the user ID.
type SSE struct {
	sseServer *sse.Server
}

func NewSSE(sseServer *sse.Server) *SSE {
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &SSE{sseServer: sseServer}
}

func StreamID(userID user.ID) string {
	return fmt.Sprintf("%d", userID)
}

func (s *SSE) PublishEvent(ctx context.Context, event user.Event) error {
	streamID := StreamID(event.UserID)
	if !s.sseServer.StreamExists(streamID) {
		return nil
	}
	data, err := json.Marshal(eventData{Type: string(event.Type), At: event.At})
	if err != nil {
		return err
	}
	s.sseServer.Publish(streamID, &sse.Event{
		Event: []byte(event.Type),
		Data:  data,
	})
	return nil
}

type eventData struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

package accountevents

import (
	"accounts/internal/core/domain/user"
	"context"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	server := sse.New()
	server.AutoStream = true
	defer server.Close()

	err := NewSSE(server).PublishEvent(context.Background(), user.Event{
		UserID: 1,
		Type:   user.EventAccountVerified,
		At:     time.Now(),
	})

	require.Nil(t, err)
	require.False(t, server.StreamExists("1"))
}

func TestPublishToExistingStream(t *testing.T) {
	server := sse.New()
	server.AutoReplay = true
	defer server.Close()
	server.CreateStream(StreamID(7))

	err := NewSSE(server).PublishEvent(context.Background(), user.Event{
		UserID: 7,
		Type:   user.EventPasswordChanged,
		At:     time.Now(),
	})

	require.Nil(t, err)
	require.True(t, server.StreamExists("7"))
}

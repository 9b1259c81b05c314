package user

import (
	"context"
	"time"
)

type EventType string

const (
	EventAccountVerified EventType = "account_verified"
	EventPasswordChanged EventType = "password_changed"
)

type Event struct {
	UserID ID
	Type   EventType
	At     time.Time
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event Event) error
}

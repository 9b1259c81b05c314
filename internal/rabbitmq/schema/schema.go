package schema

import (
	"encoding/json"
	"time"
)

type TokenNotification struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (n *TokenNotification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *TokenNotification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}

package response

import (
	"accounts/internal/core/domain/user"
	"time"
)

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Email = string(du.Email)
	u.DisplayName = du.DisplayName
	u.Status = string(du.Status)
	u.CreatedAt = du.CreatedAt
	u.UpdatedAt = du.UpdatedAt
}

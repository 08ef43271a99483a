package response

import (
	"accounts/internal/core/domain/user"
	"time"
)

// User never carries the password hash or reset token.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	NationalID string    `json:"national_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Name = du.Name
	u.Phone = string(du.Phone)
	u.NationalID = string(du.NationalID)
	u.Email = string(du.Email)
	u.CreatedAt = du.CreatedAt
}

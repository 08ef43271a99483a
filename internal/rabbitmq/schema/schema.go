package schema

import (
	"encoding/json"
	"time"
)

// PasswordResetSMS is consumed by the SMS worker that texts the token to the user.
type PasswordResetSMS struct {
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (m *PasswordResetSMS) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *PasswordResetSMS) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}

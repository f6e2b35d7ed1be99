package user

import "time"

// User is keyed by the identity provider's subject; a row is created the
// first time a previously-unseen identity presents a valid token.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	AvatarURL *string   `json:"avatarUrl" db:"avatar_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

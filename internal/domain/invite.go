package domain

import "time"

// InviteToken is a single-use registration grant tied to an email address.
// Once Used flips to true the token is permanently invalid.
type InviteToken struct {
	Token     string    `json:"token"`
	Email     Email     `json:"email"`
	Used      bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

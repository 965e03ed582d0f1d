package domain

import "time"

type User struct {
	Id               UserId
	Email            Email
	PassHash         string
	OrganizationName string
	Admin            bool
	CreatedAt        time.Time
}

// PublicUser is the user representation returned to clients.
// It never carries the password hash.
type PublicUser struct {
	Id               UserId `json:"id"`
	Email            Email  `json:"email"`
	OrganizationName string `json:"organization_name"`
}

func (u User) Public() PublicUser {
	return PublicUser{Id: u.Id, Email: u.Email, OrganizationName: u.OrganizationName}
}

type Credentials struct {
	Email    Email
	Password string
}

type Registration struct {
	Email            Email
	Password         string
	OrganizationName string
	InviteToken      string
}

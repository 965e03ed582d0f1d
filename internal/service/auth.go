package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/charitymap/charitymap/internal/domain"
	"github.com/charitymap/charitymap/internal/errors"
	"github.com/charitymap/charitymap/internal/logger"
	"github.com/charitymap/charitymap/internal/utils"
)

type AuthService interface {
	Login(creds domain.Credentials) (string, domain.PublicUser, error)
	Register(reg domain.Registration) (string, domain.PublicUser, error)
	CurrentUser(id domain.UserId) (domain.PublicUser, error)
	CreateInvite(email domain.Email) (domain.InviteToken, bool, error)
	VerifyInvite(token string) (domain.Email, error)
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	CreateUserWithInvite(user domain.User, inviteToken string) (domain.UserId, error)
	SaveInvite(invite domain.InviteToken) error
	UnusedInvite(token string) (domain.InviteToken, error)
	UnusedInviteByEmail(email domain.Email) (domain.InviteToken, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage    AuthStorage
	jwt        Jwt
	bcryptCost int
}

func NewAuth(storage AuthStorage, jwt Jwt, bcryptCost int) *Auth {
	return &Auth{storage: storage, jwt: jwt, bcryptCost: bcryptCost}
}

// Login checks credentials and returns an access token. Unknown email
// and wrong password produce the same error so account existence never
// leaks.
func (a *Auth) Login(creds domain.Credentials) (string, domain.PublicUser, error) {
	email := strings.ToLower(creds.Email)

	invalidCreds := errors.Unauthorized("Invalid email or password")

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.PublicUser{}, invalidCreds
		}
		return "", domain.PublicUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", domain.PublicUser{}, invalidCreds
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.PublicUser{}, err
	}

	return token, user.Public(), nil
}

// Register creates an account from a valid, unused invite. The user
// insert and the invite consumption happen in one transaction inside
// the storage layer.
func (a *Auth) Register(reg domain.Registration) (string, domain.PublicUser, error) {
	email := strings.ToLower(reg.Email)

	invite, err := a.storage.UnusedInvite(reg.InviteToken)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.PublicUser{}, errors.BadRequest("Invalid or expired invite token")
		}
		return "", domain.PublicUser{}, err
	}
	if strings.ToLower(invite.Email) != email {
		return "", domain.PublicUser{}, errors.BadRequest("Email does not match invite")
	}

	if _, err := a.storage.UserByEmail(email); err == nil {
		return "", domain.PublicUser{}, errors.Conflict("Email already registered")
	} else if !errors.IsNotFound(err) {
		return "", domain.PublicUser{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), a.bcryptCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", domain.PublicUser{}, err
	}

	user := domain.User{
		Email:            email,
		PassHash:         string(passHash),
		OrganizationName: reg.OrganizationName,
	}
	id, err := a.storage.CreateUserWithInvite(user, reg.InviteToken)
	if err != nil {
		return "", domain.PublicUser{}, err
	}
	user.Id = id

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.PublicUser{}, err
	}

	return token, user.Public(), nil
}

// CurrentUser resolves a token identity to the stored account. A valid
// token whose user no longer exists is an authentication failure, not a
// server error.
func (a *Auth) CurrentUser(id domain.UserId) (domain.PublicUser, error) {
	user, err := a.storage.UserById(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.PublicUser{}, errors.Unauthorized("User not found")
		}
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// CreateInvite mints a single-use invite for an email. Idempotent: when
// an unused invite already exists it is returned unchanged, and the
// second return value reports whether a new one was created.
func (a *Auth) CreateInvite(email domain.Email) (domain.InviteToken, bool, error) {
	email = strings.ToLower(email)

	existing, err := a.storage.UnusedInviteByEmail(email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.IsNotFound(err) {
		return domain.InviteToken{}, false, err
	}

	invite := domain.InviteToken{Token: utils.GenerateInviteToken(), Email: email}
	if err := a.storage.SaveInvite(invite); err != nil {
		// a concurrent mint for the same email won the partial unique
		// index; return its invite so the operation stays idempotent
		if errors.IsConflict(err) {
			if existing, lookupErr := a.storage.UnusedInviteByEmail(email); lookupErr == nil {
				return existing, false, nil
			}
		}
		return domain.InviteToken{}, false, err
	}
	return invite, true, nil
}

// VerifyInvite is a pure lookup used by the registration UI; it never
// consumes the invite.
func (a *Auth) VerifyInvite(token string) (domain.Email, error) {
	invite, err := a.storage.UnusedInvite(token)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.BadRequest("Invalid or expired invite token")
		}
		return "", err
	}
	return invite.Email, nil
}

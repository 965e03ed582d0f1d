package setup

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/charitymap/charitymap/internal/config"
	"github.com/charitymap/charitymap/internal/domain"
	"github.com/charitymap/charitymap/internal/errors"
	"github.com/charitymap/charitymap/internal/handler"
	"github.com/charitymap/charitymap/internal/jwt"
	"github.com/charitymap/charitymap/internal/logger"
	"github.com/charitymap/charitymap/internal/middleware"
	"github.com/charitymap/charitymap/internal/service"
	"github.com/charitymap/charitymap/internal/storage/pg"
)

// Dependencies holds all initialized collaborators.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies wires storage, services, handlers and middleware.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, jwtService, cfg.Public.BcryptCost)
	events := service.NewEvent(storage, storage)

	h := handler.New(auth, events, storage)
	authMw := middleware.NewAuth(jwtService)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}

// SeedAdmin creates the configured initial admin account when it does
// not exist yet, so invite minting works on a fresh database.
func SeedAdmin(cfg *config.Config, storage *pg.Storage) error {
	email := cfg.Public.SeedAdminEmail
	password := cfg.Private.SeedAdminPassword
	if email == "" || password == "" {
		return nil
	}

	if _, err := storage.UserByEmail(email); err == nil {
		return nil
	} else if !errors.IsNotFound(err) {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Public.BcryptCost)
	if err != nil {
		return err
	}

	id, err := storage.SaveUser(domain.User{
		Email:            email,
		PassHash:         string(passHash),
		OrganizationName: cfg.Public.SeedAdminOrgName,
		Admin:            true,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("created initial admin user", "user_id", id, "email", email)
	return nil
}

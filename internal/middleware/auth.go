package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
	jwt_internal "github.com/charitymap/charitymap/internal/jwt"
	"github.com/charitymap/charitymap/internal/utils"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth returns middleware that requires a valid bearer token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that additionally requires the admin claim.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || tokenString == "" {
				utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Token is missing"))
				return
			}

			claims, err := a.jwtService.DecodeToken(tokenString)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !claims.Admin {
				utils.WriteErrorAndStatusCode(w, internal_errors.Forbidden("Access denied. Only for admin"))
				return
			}

			// The context carries the token identity only; handlers that
			// need the full user row look it up through the auth service.
			user := &domain.User{
				Id:    claims.UserId,
				Email: claims.Email,
				Admin: claims.Admin,
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the authenticated user from the context.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

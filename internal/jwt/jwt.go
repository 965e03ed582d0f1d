package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
	"github.com/charitymap/charitymap/internal/logger"
)

// Claims is the identity carried by a bearer token.
type Claims struct {
	UserId domain.UserId
	Email  domain.Email
	Admin  bool
}

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["admin"] = user.Admin
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

// DecodeToken verifies the signature and expiry of a token and returns
// its claims. Expired tokens and malformed/tampered tokens surface as
// distinct 401 messages.
func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Token has expired", StatusCode: http.StatusUnauthorized}
		}
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}

	uid, ok := mapClaims["uid"].(float64)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	admin, _ := mapClaims["admin"].(bool)

	return &Claims{UserId: int64(uid), Email: email, Admin: admin}, nil
}

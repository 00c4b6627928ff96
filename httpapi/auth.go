package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// authenticator holds the single operator account and the token secret.
type authenticator struct {
	secret   []byte
	user     string
	passHash []byte
	logger   *slog.Logger
}

func newAuthenticator(secret, user, passHash string, logger *slog.Logger) *authenticator {
	return &authenticator{
		secret:   []byte(secret),
		user:     user,
		passHash: []byte(passHash),
		logger:   logger,
	}
}

// login verifies the credentials and issues a signed bearer token.
func (a *authenticator) login(username, password string) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("empty token secret")
	}
	if username != a.user {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// middleware rejects requests without a valid bearer token.
func (a *authenticator) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authorization header missing"})
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return a.secret, nil
			})
			if err != nil || !token.Valid {
				a.logger.Warn("rejected admin request", "error", err)
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			}

			c.Set("user", token.Claims)
			return next(c)
		}
	}
}

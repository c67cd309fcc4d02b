package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// EmailResolver maps a token's email claim to a local user.
type EmailResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// JWTAuthMiddleware checks for a valid HS256 JWT and stores the caller's user
// ID in the context. Tokens without a user_id claim are resolved through their
// email when users is non-nil.
func JWTAuthMiddleware(secret string, users EmailResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if claims.UserID == 0 {
				if users == nil || claims.Email == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
				user, err := users.GetUserByEmail(c.Request().Context(), claims.Email)
				if err != nil {
					if errors.Is(err, repositories.ErrNotFound) {
						return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
					}
					return echo.NewHTTPError(http.StatusServiceUnavailable, "Could not resolve user").SetInternal(err)
				}
				claims.UserID = user.ID
			}

			c.Set("user", claims)
			c.Set(UserIDKey, claims.UserID)

			return next(c)
		}
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"crateDigger/pkg/logger"
	"crateDigger/pkg/utils"

	jsonres "crateDigger/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks a token against the Redis session store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// AuthMiddleware validates the bearer JWT and the Redis session entry. Both
// must agree on the user before the request proceeds.
func AuthMiddleware(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Error("Failed to parse JWT", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Token expired", nil,
				))
			}

			if tokenValidator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				userID, err := tokenValidator.ValidateToken(ctx, tokenString)
				if err != nil {
					logger.Error("Token not found in Redis", err)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token expired or invalid", nil,
					))
				}

				if userID != claims.UserID {
					logger.Error("UserID mismatch between JWT and Redis")
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get("role")
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}

// Package middleware holds the echo middlewares: JWT auth, role checks,
// Redis response cache, token-bucket rate limiting and request logging.
package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/yoga-studio-booking/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the caller's user ID
// (uint64) and role in the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            id, _ := claims.UserID()
            c.Set(ctxUserID, id)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}

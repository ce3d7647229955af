package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/yoga-studio-booking/internal/logger"
)

// RequireRole answers 403 unless the role placed in the context by JWTAuth
// is one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]struct{}, len(roles))
    for _, r := range roles {
        allowed[r] = struct{}{}
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role := Role(c)
            if _, ok := allowed[role]; ok {
                return next(c)
            }
            logger.Debug().
                Str("who", identity(c)).
                Str("role", role).
                Str("route", c.Path()).
                Msg("role rejected")
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
}

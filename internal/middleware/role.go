package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole restricts a route to callers whose JWT "role" claim is in
// the allowed set.  Mounted after JWTAuth, which stored the claim; used
// by the platform revenue routes to keep the fee ledger admin-only.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireUserType ensures the requester's user type is one of the allowed
// ones. Usage: route(..., RequireUserType("seller"))
func RequireUserType(types ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType, _ := c.Get("user_type").(string)
			if userType == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "user type missing"})
			}

			for _, t := range types {
				if userType == t {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}
}

package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// CheckUsername reports whether a username is still available.
func CheckUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing username",
			"message": "Username is required",
		})
	}

	var exists bool
	err := db.Conn.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		c.Logger().Errorf("check username: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to check username"})
	}

	msg := "Username available"
	if exists {
		msg = "Username already taken"
	}
	return c.JSON(http.StatusOK, echo.Map{"available": !exists, "message": msg})
}

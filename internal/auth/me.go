package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// Me rehydrates the session for the authenticated user. Identity comes
// from the verified bearer token, never from request parameters.
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var (
		email     string
		username  string
		userType  string
		createdAt time.Time
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT email, username, user_type, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&email, &username, &userType, &createdAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "User not found",
			"message": "User does not exist",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":         userID,
			"email":      email,
			"username":   username,
			"role":       UserTypeToRole(userType),
			"user_type":  userType,
			"created_at": createdAt,
		},
	})
}

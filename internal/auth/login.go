package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// Login authenticates by email or username. Unknown account and wrong
// password both produce the same generic 401.
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing credentials",
			"message": "Please provide email/username and password",
		})
	}

	// Emails are stored lowercase; usernames match case-sensitively.
	var (
		userID    string
		email     string
		username  string
		password  string
		userType  string
		createdAt time.Time
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, email, username, password, user_type, created_at
		 FROM users WHERE email = $1 OR username = $2`,
		strings.ToLower(req.EmailOrUsername), req.EmailOrUsername,
	).Scan(&userID, &email, &username, &password, &userType, &createdAt)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":   "Invalid credentials",
			"message": "Email/username or password is incorrect",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":   "Invalid credentials",
			"message": "Email/username or password is incorrect",
		})
	}

	token, err := IssueToken(userID, userType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Token generation failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
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

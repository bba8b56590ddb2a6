package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/tasks"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// Signup registers a new buyer or seller and returns a session token.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "All fields are required",
			"message": "Please provide email, password, username, and role",
		})
	}

	email := strings.ToLower(req.Email)
	ctx := context.Background()

	// Pre-check so the caller learns which field collides. The unique
	// constraints still backstop concurrent signups below.
	var existingEmail, existingUsername string
	err := db.Conn.QueryRow(ctx,
		`SELECT email, username FROM users WHERE email = $1 OR username = $2`,
		email, req.Username,
	).Scan(&existingEmail, &existingUsername)
	if err == nil {
		msg := "Username already taken"
		if existingEmail == email {
			msg = "Email already registered"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User already exists", "message": msg})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create user"})
	}

	userType := RoleToUserType(req.Role)
	userID := uuid.New().String()

	var createdAt time.Time
	err = db.Conn.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password, user_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		userID, req.Username, email, string(hashed), userType,
	).Scan(&createdAt)
	if err != nil {
		if field, ok := db.DuplicateField(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "Duplicate entry",
				"message": field + " already exists",
			})
		}
		c.Logger().Errorf("signup insert: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create user"})
	}

	token, err := IssueToken(userID, userType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Token generation failed"})
	}

	// Welcome email, best-effort
	_ = tasks.EnqueueWelcomeEmail(userID, email, req.Username)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"token":   token,
		"user": echo.Map{
			"id":         userID,
			"email":      email,
			"username":   req.Username,
			"role":       UserTypeToRole(userType),
			"user_type":  userType,
			"created_at": createdAt,
		},
	})
}

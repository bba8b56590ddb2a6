package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

const userColumns = `id, username, email, user_type, profile, seller_profile,
	subscription_status, subscription_id, created_at, updated_at`

func fetchUser(ctx context.Context, userID string) (*User, error) {
	u := new(User)
	err := db.Conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID,
	).Scan(
		&u.ID, &u.Username, &u.Email, &u.UserType, &u.Profile, &u.SellerProfile,
		&u.SubscriptionStatus, &u.SubscriptionID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.UserType != "seller" {
		u.SellerProfile = nil
	}
	return u, nil
}

// GetProfile returns one user without credentials.
func GetProfile(c echo.Context) error {
	userID := c.Param("userId")

	u, err := fetchUser(context.Background(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
		}
		c.Logger().Errorf("get profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

type updateProfileRequest struct {
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Bio       *string   `json:"bio"`
	Skills    *[]string `json:"skills"`
}

// UpdateProfile merges the supplied fields into the caller's profile
// document. Absent fields are untouched.
func UpdateProfile(c echo.Context) error {
	userID := c.Param("userId")
	if tokenUser, _ := c.Get("user_id").(string); tokenUser != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only update your own profile"})
	}

	req := new(updateProfileRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	patch := map[string]any{}
	if req.FirstName != nil {
		patch["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		patch["last_name"] = *req.LastName
	}
	if req.Bio != nil {
		patch["bio"] = *req.Bio
	}
	if req.Skills != nil {
		patch["skills"] = *req.Skills
	}
	if len(patch) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nothing to update", "message": "Provide at least one profile field"})
	}

	raw, _ := json.Marshal(patch)

	ctx := context.Background()
	res, err := db.Conn.Exec(ctx,
		`UPDATE users SET profile = profile || $2::jsonb, updated_at = NOW() WHERE id = $1`,
		userID, string(raw))
	if err != nil {
		c.Logger().Errorf("update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update profile"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
	}

	u, err := fetchUser(ctx, userID)
	if err != nil {
		c.Logger().Errorf("update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    u,
	})
}

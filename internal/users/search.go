package users

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

type userSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	UserType       string `json:"user_type"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Search finds users by username or email fragment, optionally filtered
// to one user type. Capped at 10 matches.
func Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing query", "message": "A search query is required"})
	}

	sql := `SELECT id, username, email, user_type, COALESCE(profile->>'profile_picture', '')
		FROM users WHERE (username ILIKE $1 OR email ILIKE $1)`
	args := []any{"%" + query + "%"}

	if userType := c.QueryParam("user_type"); userType == "seller" || userType == "buyer" {
		args = append(args, userType)
		sql += ` AND user_type = $2`
	}
	sql += ` ORDER BY username LIMIT 10`

	rows, err := db.Conn.Query(context.Background(), sql, args...)
	if err != nil {
		c.Logger().Errorf("search users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to search users"})
	}
	defer rows.Close()

	results := []userSummary{}
	for rows.Next() {
		var u userSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.UserType, &u.ProfilePicture); err != nil {
			c.Logger().Errorf("scan user: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to search users"})
		}
		results = append(results, u)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": results})
}

// Freelancers lists sellers ranked by rating for the discovery page.
func Freelancers(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE user_type = 'seller'
		 ORDER BY COALESCE((seller_profile->>'rating')::numeric, 0) DESC, created_at DESC
		 LIMIT 50`)
	if err != nil {
		c.Logger().Errorf("list freelancers: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get freelancers"})
	}
	defer rows.Close()

	freelancers := []*User{}
	for rows.Next() {
		u := new(User)
		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.UserType, &u.Profile, &u.SellerProfile,
			&u.SubscriptionStatus, &u.SubscriptionID, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			c.Logger().Errorf("scan freelancer: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get freelancers"})
		}
		freelancers = append(freelancers, u)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "freelancers": freelancers})
}

package users

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/uploads"
)

const maxPictureSize = 5 << 20

// UploadPicture replaces the caller's profile picture. The previous
// picture file is removed once the new one is stored.
func UploadPicture(c echo.Context) error {
	userID := c.Param("userId")
	if tokenUser, _ := c.Get("user_id").(string); tokenUser != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only update your own profile"})
	}

	fh, err := c.FormFile("profile_picture")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded", "message": "Please attach a profile picture"})
	}
	if fh.Size > maxPictureSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large", "message": "The picture must be 5MB or less"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !uploads.AllowedImageExt[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type", "message": "Only jpeg, jpg, png, gif and webp images are allowed"})
	}

	ctx := context.Background()

	var oldPath string
	err = db.Conn.QueryRow(ctx,
		`SELECT COALESCE(profile->>'profile_picture', '') FROM users WHERE id = $1`, userID,
	).Scan(&oldPath)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
	}

	path, err := uploads.SaveFile(fh, "profiles", "profile")
	if err != nil {
		c.Logger().Errorf("save picture: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to save uploaded file"})
	}

	if _, err := db.Conn.Exec(ctx,
		`UPDATE users SET profile = jsonb_set(profile, '{profile_picture}', to_jsonb($2::text)), updated_at = NOW()
		 WHERE id = $1`, userID, path); err != nil {
		c.Logger().Errorf("update picture: %v", err)
		os.Remove(path)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update profile picture"})
	}

	if oldDisk, ok := uploads.DiskPath(oldPath); ok {
		if err := os.Remove(oldDisk); err != nil && !os.IsNotExist(err) {
			c.Logger().Warnf("remove old picture: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"message":         "Profile picture updated successfully",
		"profile_picture": path,
	})
}

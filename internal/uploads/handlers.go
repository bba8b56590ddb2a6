package uploads

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	maxImageSize = 10 << 20
	maxPDFSize   = 10 << 20
	maxImages    = 5
)

// Images accepts up to five image files and returns their stored paths.
func Images(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No files uploaded", "message": "Please attach at least one image"})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No files uploaded", "message": "Please attach at least one image"})
	}
	if len(files) > maxImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Too many files", "message": "A maximum of 5 images is allowed"})
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageSize {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large", "message": "Each image must be 10MB or less"})
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !AllowedImageExt[ext] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type", "message": "Only jpeg, jpg, png, gif and webp images are allowed"})
		}
		if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type", "message": "Only image files are allowed"})
		}

		path, err := SaveFile(fh, "gigs", "gig")
		if err != nil {
			c.Logger().Errorf("save image: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to save uploaded file"})
		}
		paths = append(paths, path)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "Files uploaded successfully",
		"file_paths": paths,
	})
}

// PDF accepts a single PDF attachment.
func PDF(c echo.Context) error {
	fh, err := c.FormFile("pdf")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded", "message": "Please attach a PDF"})
	}
	if fh.Size > maxPDFSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large", "message": "The PDF must be 10MB or less"})
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type", "message": "Only PDF files are allowed"})
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type", "message": "Only PDF files are allowed"})
	}

	path, err := SaveFile(fh, "pdfs", "doc")
	if err != nil {
		c.Logger().Errorf("save pdf: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to save uploaded file"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "File uploaded successfully",
		"file_path": path,
		"file_name": fh.Filename,
		"file_size": fh.Size,
	})
}

type deleteFileRequest struct {
	FilePath string `json:"file_path" validate:"required"`
}

// DeleteFile removes a previously uploaded file. Paths outside the
// upload root are rejected.
func DeleteFile(c echo.Context) error {
	req := new(deleteFileRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing file path", "message": "file_path is required"})
	}

	diskPath, ok := DiskPath(req.FilePath)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid path", "message": "File is outside the upload directory"})
	}

	if err := os.Remove(diskPath); err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found", "message": "The file does not exist"})
		}
		c.Logger().Errorf("delete file: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to delete file"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "File deleted successfully"})
}

package uploads

import (
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sudo-init-do/gigmarket/internal/config"
)

// MountPath is the URL prefix the upload directory is served under.
// Stored file paths always use this prefix, whatever UPLOAD_DIR is.
const MountPath = "/uploads"

// AllowedImageExt lists the image extensions accepted for uploads.
var AllowedImageExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// RandomName builds a collision-resistant file name keeping the original
// extension, e.g. "gig-1700000000123-456789123.png".
func RandomName(prefix, ext string) string {
	return fmt.Sprintf("%s-%d-%d%s", prefix, time.Now().UnixMilli(), rand.IntN(1_000_000_000), strings.ToLower(ext))
}

// SaveFile stores one multipart file under dir inside the upload root
// with a randomized name and returns its public URL path.
func SaveFile(fh *multipart.FileHeader, dir, prefix string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(config.C.UploadDir, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	name := RandomName(prefix, filepath.Ext(fh.Filename))

	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filepath.Join(target, name))
		return "", err
	}
	return path.Join(MountPath, dir, name), nil
}

// DiskPath maps a public upload path back to its on-disk location.
// Anything outside the mount, or escaping it, is rejected.
func DiskPath(public string) (string, bool) {
	rel, ok := strings.CutPrefix(public, MountPath+"/")
	if !ok || rel == "" {
		return "", false
	}
	rel = path.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	return filepath.Join(config.C.UploadDir, filepath.FromSlash(rel)), true
}

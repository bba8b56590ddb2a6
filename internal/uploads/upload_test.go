package uploads

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/config"
)

func TestRandomNameKeepsExtension(t *testing.T) {
	name := RandomName("gig", ".PNG")
	assert.True(t, strings.HasPrefix(name, "gig-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestRandomNameUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := RandomName("doc", ".pdf")
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestAllowedImageExt(t *testing.T) {
	assert.True(t, AllowedImageExt[".png"])
	assert.True(t, AllowedImageExt[".webp"])
	assert.False(t, AllowedImageExt[".svg"])
	assert.False(t, AllowedImageExt[".exe"])
}

func TestDiskPath(t *testing.T) {
	config.C.UploadDir = "data"

	disk, ok := DiskPath("/uploads/gigs/a.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("data", "gigs", "a.png"), disk)

	_, ok = DiskPath("/uploads")
	assert.False(t, ok)
	_, ok = DiskPath("/uploads/")
	assert.False(t, ok)
	_, ok = DiskPath("/uploads/../secrets.env")
	assert.False(t, ok)
	_, ok = DiskPath("/etc/passwd")
	assert.False(t, ok)
	_, ok = DiskPath("other/a.png")
	assert.False(t, ok)
}

func makeFileHeader(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File[field][0]
}

// Stored paths must resolve to the public mount whatever the upload
// directory is configured as.
func TestSaveFileReturnsPublicPath(t *testing.T) {
	config.C.UploadDir = t.TempDir()

	fh := makeFileHeader(t, "images", "shot.png", "not-really-a-png")

	public, err := SaveFile(fh, "gigs", "gig")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(public, "/uploads/gigs/gig-"), "got %s", public)
	assert.True(t, strings.HasSuffix(public, ".png"))

	disk, ok := DiskPath(public)
	require.True(t, ok)
	data, err := os.ReadFile(disk)
	require.NoError(t, err)
	assert.Equal(t, "not-really-a-png", string(data))
}

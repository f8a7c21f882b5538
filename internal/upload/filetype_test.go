package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtension_Allowed(t *testing.T) {
	for ext := range contentTypes {
		for _, name := range []string{"file" + ext, "FILE" + strings.ToUpper(ext), "a.b.c" + ext} {
			got, err := ValidateExtension(name)
			require.NoError(t, err, name)
			assert.Equal(t, ext, got, name)
		}
	}
}

func TestValidateExtension_Rejected(t *testing.T) {
	for _, name := range []string{
		"", "noext", "evil.exe", "script.sh", "photo.svg", "archive.tar.gz",
		"photo.png.php", "../../etc/passwd", ".png/", "image.jpg ",
		".png", ".JPG", "dir/.webp",
	} {
		_, err := ValidateExtension(name)
		assert.ErrorIs(t, err, ErrInvalidFileType, name)
	}
}

func TestValidateImageMIME(t *testing.T) {
	for _, mt := range []string{"image/jpeg", "image/png", "image/webp", "image/gif", "IMAGE/PNG", "image/png; charset=binary"} {
		assert.NoError(t, ValidateImageMIME(mt), mt)
	}
	for _, mt := range []string{"", "image/svg+xml", "application/pdf", "text/html", "video/mp4"} {
		assert.ErrorIs(t, ValidateImageMIME(mt), ErrInvalidFileType, mt)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType(".jpg"))
	assert.Equal(t, "image/jpeg", ContentType(".jpeg"))
	assert.Equal(t, "video/quicktime", ContentType(".mov"))
	assert.Equal(t, "application/octet-stream", ContentType(".bin"))
}

func TestMakeKey(t *testing.T) {
	key := MakeKey("public/avatars/u1", ".png")
	require.True(t, strings.HasPrefix(key, "public/avatars/u1/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	id := strings.TrimSuffix(strings.TrimPrefix(key, "public/avatars/u1/"), ".png")
	assert.Len(t, id, 36)

	assert.True(t, strings.HasPrefix(MakeKey("public/x/", ".gif"), "public/x/"))
	assert.NotContains(t, MakeKey("public/x/", ".gif"), "//")
}

func TestMakeKey_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		k := MakeKey("public/listings/goods/abc123", ".png")
		_, dup := seen[k]
		require.False(t, dup, "duplicate key %s", k)
		seen[k] = struct{}{}
	}
}

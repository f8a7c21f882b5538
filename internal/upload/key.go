package upload

import (
	"strings"

	"github.com/google/uuid"
)

// MakeKey builds "{prefix}/{uuid4}{ext}". Only the canonical extension is
// taken from client input; the original filename never reaches the key.
func MakeKey(prefix, ext string) string {
	return strings.TrimRight(prefix, "/") + "/" + uuid.NewString() + ext
}

// Package upload validates untrusted files, stores them in object storage and
// attaches them to owning records (user avatars, listing images).
package upload

import (
	"path/filepath"
	"strings"
)

// contentTypes maps every allowed extension to the content type stored with
// the object. The client-declared MIME type is never stored.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

// imageMIMEs is the declared-MIME allow-list for image-only slots.
var imageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateExtension returns the lower-cased extension of filename (with the
// leading dot) if it is allow-listed, or ErrInvalidFileType. A dotfile such as
// ".png" has no extension.
func ValidateExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if base := filepath.Base(filename); strings.EqualFold(base, ext) {
		return "", ErrInvalidFileType
	}
	if _, ok := contentTypes[ext]; !ok {
		return "", ErrInvalidFileType
	}
	return ext, nil
}

// ValidateImageMIME checks the client-declared MIME type for image-only uploads.
// Parameters such as "; charset=" are ignored.
func ValidateImageMIME(declared string) error {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	if !imageMIMEs[mt] {
		return ErrInvalidFileType
	}
	return nil
}

// ContentType returns the stored content type for a canonical extension.
func ContentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

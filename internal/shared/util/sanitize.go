package util

import (
	"errors"
	"strings"
)

// maxFileNameLen caps sanitized names so object keys stay well under
// backend key limits once the hashed owner prefix is added.
const maxFileNameLen = 200

// SanitizeFileName makes an uploaded resume file name safe to embed in
// an object key. Path separators become underscores; traversal
// patterns, empty names, and oversized names are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > maxFileNameLen {
		return "", errors.New("file name too long")
	}
	return s, nil
}

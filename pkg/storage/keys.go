package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key prefixes for each kind of upload.
const (
	PrefixLessons         = "lessons"
	PrefixTeacherProfiles = "teacher-profiles"
	PrefixSchoolLogos     = "school-logos"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFilename keeps the base name of filename and replaces every character outside
// [a-zA-Z0-9.-] with an underscore.
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	clean := unsafeKeyChars.ReplaceAllString(base, "_")
	if strings.Trim(clean, "._") == "" {
		return "file"
	}
	return clean
}

// TimestampKey builds "<prefix>/<unix-ms>-<sanitised name>".
func TimestampKey(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", prefix, now.UnixMilli(), SanitizeFilename(filename))
}

// UniqueKey is TimestampKey with a random component, for uploads that may arrive concurrently
// with the same name.
func UniqueKey(prefix, filename string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s-%s", prefix, now.UnixMilli(), id, SanitizeFilename(filename))
}

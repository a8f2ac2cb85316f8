package storage

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

const rootFolder = "lms"

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Slugify lower-cases s, collapses every run of characters outside [a-z0-9]
// into one underscore and trims underscores from both ends.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

// Folder returns lms/{kind}/{courseSlug}/{sessionSlug}, or lms/{kind} when
// neither title is given. A missing or unsluggable title on one side
// falls back to "general" or "session".
func Folder(kind, courseTitle, sessionTitle string) string {
	if strings.TrimSpace(courseTitle) == "" && strings.TrimSpace(sessionTitle) == "" {
		return rootFolder + "/" + kind
	}
	return strings.Join([]string{rootFolder, kind, slugOr(courseTitle, "general"), slugOr(sessionTitle, "session")}, "/")
}

// ObjectPath is the destination path of filename inside Folder(kind, ...).
func ObjectPath(kind, courseTitle, sessionTitle, filename string) string {
	return Folder(kind, courseTitle, sessionTitle) + "/" + filename
}

// SanitizeFilename replaces whitespace with underscores and drops anything
// outside [a-zA-Z0-9._-].
func SanitizeFilename(name string) string {
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		return "file"
	}
	return name
}

// UniqueFilename prefixes the sanitized name with {unixMillis}-{n}-.
func UniqueFilename(original string, now time.Time, n int64) string {
	return fmt.Sprintf("%d-%d-%s", now.UnixMilli(), n, SanitizeFilename(original))
}

// NewFilename is UniqueFilename with the current time and a random number below 1e9.
func NewFilename(original string) string {
	return UniqueFilename(original, time.Now(), rand.Int63n(1_000_000_000))
}

func slugOr(title, fallback string) string {
	if s := Slugify(title); s != "" {
		return s
	}
	return fallback
}

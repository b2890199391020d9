package errors

import (
	"strings"
	"unicode"
)

// maxSlugLength bounds slugs taken from request paths and CLI arguments.
const maxSlugLength = 256

// ValidateSlug checks an entry slug before it is looked up. Slugs are
// relative, slash-separated paths like "2025/tokyo-morning"; anything that
// could escape a collection directory is rejected with ErrCodeInvalidPath.
func ValidateSlug(slug string) error {
	switch {
	case slug == "":
		return New(ErrCodeInvalidPath, "slug is empty")
	case len(slug) > maxSlugLength:
		return New(ErrCodeInvalidPath, "slug longer than %d bytes", maxSlugLength)
	case strings.HasPrefix(slug, "/"):
		return New(ErrCodeInvalidPath, "slug %q must be relative", slug)
	case strings.ContainsRune(slug, '\\'):
		return New(ErrCodeInvalidPath, "slug %q contains a backslash", slug)
	case strings.IndexFunc(slug, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "slug contains control characters")
	}
	for _, part := range strings.Split(slug, "/") {
		if part == ".." || part == "." {
			return New(ErrCodeInvalidPath, "slug %q contains a relative segment", slug)
		}
	}
	return nil
}

// ValidateURL accepts absolute http and https links, such as a video's
// watch page.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", rawURL)
	}
	return nil
}

// ValidateRecordURL validates an image locator. Locators are opaque, so only
// emptiness, control characters and script schemes are rejected.
func ValidateRecordURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	switch {
	case trimmed == "":
		return New(ErrCodeInvalidRecord, "url is required")
	case strings.IndexFunc(rawURL, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidRecord, "url contains control characters")
	case strings.HasPrefix(strings.ToLower(trimmed), "javascript:"):
		return New(ErrCodeInvalidRecord, "url scheme not allowed")
	}
	return nil
}

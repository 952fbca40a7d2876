package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a diagram node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
//
// Node ids come from an external generator and end up in SVG element ids,
// file names, and API paths, so anything unprintable is rejected outright.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDiagram, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidDiagram, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDiagram, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateSessionID validates a session identifier for export requests.
// An empty session id is a precondition failure, not a silent no-op.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidSession, "session id is required")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSession, "session id contains invalid characters")
		}
	}
	return nil
}

// ValidateFilename validates an artifact filename supplied by the document
// generation service. It ensures the filename is a simple basename without
// path components, so a misbehaving collaborator cannot write outside the
// delivery directory.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "artifact filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "artifact filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidInput, "artifact filename cannot contain traversal sequences")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "artifact filename cannot be a hidden file")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "artifact filename contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

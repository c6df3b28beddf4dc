package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// projectIDRegex matches project identifiers usable as store keys and URL
// path segments.
var projectIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProjectID validates a project identifier before it is used to build
// Redis keys, Mongo filters or URL paths.
//
// Validation rules:
//   - Not empty, at most 128 characters
//   - Starts with a letter or digit
//   - Only letters, digits, '.', '_' and '-'
//   - No ".." sequences
func ValidateProjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProject, "project id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidProject, "project id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidProject, "project id cannot contain %q", "..")
	}
	if !projectIDRegex.MatchString(id) {
		return New(ErrCodeInvalidProject, "invalid project id: %q", id)
	}
	return nil
}

// ValidatePath validates a task file path given on the command line or in
// configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a backend connection URL such as a MongoDB URI.
// It only checks that the scheme is one of the allowed ones.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}

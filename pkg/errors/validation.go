package errors

import (
	"strings"
	"unicode"
)

// maxCategoryLength bounds cause and location names accepted from clients.
const maxCategoryLength = 256

// ValidateCategoryName validates a cause name received from an interactive
// client before it is used as a drill-down selection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Whether the cause exists in the dataset is checked separately by the
// aggregation pipeline, which reports NOT_FOUND.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "category name cannot be empty")
	}

	if len(name) > maxCategoryLength {
		return New(ErrCodeInvalidInput, "category name too long (max %d characters)", maxCategoryLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "category name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSourcePath validates a record source path given on the command
// line or in the config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "source path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "source path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a connection URL (redis://, mongodb://) for the
// supported schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %v", schemes)
}

package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds node and filter names.
const maxNameLength = 128

// ValidateNodeName validates a user-supplied node instance name.
// Empty names are allowed (the graph generates one), but a non-empty name
// must be printable and must not contain the characters used by graph
// descriptions to address pads.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - No ':' (pad separator in link endpoints) or '|' (format list separator)
//   - Maximum length of 128 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return nil
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "node name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "node name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, ":|") {
		return New(ErrCodeInvalidName, "node name contains invalid characters: %q", name)
	}

	return nil
}

// ValidateFilterName validates the name of a filter kind.
// Filter kinds are looked up by name, so names must be non-empty lowercase
// identifiers made of letters, digits and underscores.
func ValidateFilterName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "filter name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "filter name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r != '_' && !unicode.IsDigit(r) && !(unicode.IsLetter(r) && unicode.IsLower(r)) {
			return New(ErrCodeInvalidName, "invalid filter name: %q", name)
		}
	}

	return nil
}

package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ReservedTag is the tag name that means "every package in the manifest".
// It may be requested but never declared.
const ReservedTag = "all"

// ValidatePackageName validates a package name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
//
// Ecosystem-specific rules are layered on top by ValidatePythonPackageName.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// pythonPackageNameRegex matches valid Python package names (PEP 508).
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePythonPackageName validates a Python package name per PEP 508.
func ValidatePythonPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Python package name: %q", name)
	}

	return nil
}

// ValidateTag validates a requested tag name. Tags are whatever the manifest
// declares, which may include spaces and ':'. Empty tags, control characters
// and ',' (the request list separator) are rejected.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}

	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "tag %q contains control characters", tag)
		}
		if r == ',' {
			return New(ErrCodeInvalidTag, "tag %q contains separator ','", tag)
		}
	}

	return nil
}

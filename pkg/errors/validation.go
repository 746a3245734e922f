package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// debianNameRegex matches valid Debian source package names per Debian policy
// §5.6.1: at least two characters, lowercase alphanumerics plus "+", "-", ".",
// starting with an alphanumeric.
var debianNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9+.-]+$`)

// ValidatePackageName validates a Debian source package name.
// Names come from a user-supplied list file and end up both as apt arguments
// and as directory-name prefixes, so anything that could escape the source
// directory is rejected before it reaches a subprocess.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains control characters")
		}
	}

	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPackage, "package name contains path separators: %q", name)
	}

	if !debianNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Debian source package name: %q", name)
	}

	return nil
}

// localeRegex matches locale tokens of the forms "zh", "zh_CN" and
// "zh_Hant_HK" (language, optional script, optional territory).
var localeRegex = regexp.MustCompile(`^[a-z]{2,3}(_[A-Z][a-z]{3})?(_[A-Z]{2})?$`)

// ValidateLocale validates a locale token such as "zh_CN".
// Tokens are passed verbatim to the stats tool's -l argument.
func ValidateLocale(token string) error {
	if token == "" {
		return New(ErrCodeInvalidLanguage, "language token cannot be empty")
	}

	if !localeRegex.MatchString(token) {
		return New(ErrCodeInvalidLanguage, "invalid language token: %q", token)
	}

	return nil
}

package nav

import (
	"errors"
	"strings"
)

// Canonicalization errors.
var (
	ErrInvalidPath          = errors.New("nav: invalid path")
	ErrBackslashInPath      = errors.New("nav: path contains backslash")
	ErrNullByteInPath       = errors.New("nav: path contains null byte")
	ErrInvalidPercentEscape = errors.New("nav: invalid percent escape")
	ErrPathEscapesRoot      = errors.New("nav: path escapes root via ..")
)

// Canonicalize normalizes a navigation path before it reaches the engine:
// the leading slash is enforced, repeated slashes collapse, "." segments
// drop, ".." segments resolve, and the trailing slash is removed except
// for root. The query string is preserved untouched.
//
// Backslash, NUL (literal or %00), malformed percent escapes, and ".."
// that would climb above root are rejected.
func Canonicalize(input string) (string, error) {
	if input == "" {
		return "/", nil
	}

	path, query, hasQuery := strings.Cut(input, "?")

	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return "", ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path = "/" + strings.Join(segments, "/")
	if hasQuery && query != "" {
		path += "?" + query
	}
	return path, nil
}

// CanonicalizeNavPath canonicalizes a path coming from a platform
// navigation intent. Absolute URLs are rejected so an intent can never
// turn into an open redirect.
func CanonicalizeNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}
	return Canonicalize(path)
}

func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Package prefix encodes and decodes the analysis summary convention
// layered onto the Album field: up to three "<token> | " segments in
// front of the user's original album text.
package prefix

import "strings"

// Delimiter separates prefix segments from each other and from the
// original album text.
const Delimiter = " | "

// maxSegments bounds stripping; a legitimately pipe-containing album
// name must never be eaten past this depth.
const maxSegments = 3

// isToken reports whether s is a plausible analysis token: non-empty
// and built only from alphanumerics, '.' and '#'.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '#':
		default:
			return false
		}
	}
	return true
}

// Strip removes up to three leading analysis segments and returns the
// remainder, the user's original album text.
func Strip(album string) string {
	rest := album
	for i := 0; i < maxSegments; i++ {
		pos := strings.Index(rest, Delimiter)
		if pos < 0 {
			break
		}
		if !isToken(rest[:pos]) {
			break
		}
		rest = rest[pos+len(Delimiter):]
	}
	return rest
}

// Build joins analysis parts into a prefix string.
func Build(parts []string) string {
	return strings.Join(parts, Delimiter)
}

// Apply layers parts onto the current album text. With force the result
// is the bare prefix; otherwise the previous prefix is stripped first,
// which makes repeated writes idempotent.
func Apply(current string, parts []string, force bool) string {
	built := Build(parts)
	if force || built == "" {
		return built
	}
	if rest := Strip(strings.TrimSpace(current)); rest != "" {
		return built + Delimiter + rest
	}
	return built
}

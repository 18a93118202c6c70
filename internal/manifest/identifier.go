package manifest

import (
	"regexp"
	"strings"
)

const identifierSeparator = "-"

var nonWordRun = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// NormalizeIdentifier derives the canonical identifier of a package name.
// e.g., "@My/Lib!!" -> "my-lib".
//
// Runs of characters other than letters, digits and underscore collapse into a
// single "-", the result is lowercased and leading/trailing separators are
// trimmed. Applying it twice yields the same value as applying it once.
func NormalizeIdentifier(name string) string {
	id := nonWordRun.ReplaceAllString(name, identifierSeparator)
	id = strings.ToLower(id)
	return strings.Trim(id, identifierSeparator)
}

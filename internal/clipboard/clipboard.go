// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"regexp"

	"github.com/atotto/clipboard"
)

var ansiEscapes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

// Write copies text to the clipboard with terminal escape codes removed.
func Write(text string) error {
	return writeAll(StripANSI(text))
}

// Available reports whether a clipboard backend was found.
func Available() bool {
	return !clipboard.Unsupported
}

// StripANSI removes SGR and cursor escape sequences.
func StripANSI(text string) string {
	return ansiEscapes.ReplaceAllString(text, "")
}

// ABOUTME: Grapheme cluster counting used for every post length budget
// ABOUTME: Counts user-perceived characters instead of bytes or runes
package thread

import "github.com/rivo/uniseg"

// Count returns the number of extended grapheme clusters in text.
// "e" followed by a combining acute accent is one grapheme, as is a ZWJ emoji sequence.
func Count(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// Fits reports whether text is within maxGraphemes.
func Fits(text string, maxGraphemes int) bool {
	return Count(text) <= maxGraphemes
}

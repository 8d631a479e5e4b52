package usecase

import (
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_.-]`)

// ValidFilename trims s, turns spaces into underscores and drops everything
// that is not a letter, digit, dash, underscore or dot.
//
//	ValidFilename("john's portrait in 2004.jpg") == "johns_portrait_in_2004.jpg"
func ValidFilename(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return invalidFilenameChars.ReplaceAllString(s, "")
}

package util

import (
	"strings"
	"unicode"
)

var pathSeparatorReplacer = strings.NewReplacer("/", "-", "\\", "-")

// SanitizeForFilename makes name safe to use as a single path component.
// Path separators become hyphens and control characters are dropped, so a
// title like "Avant/Après" cannot make the downloader create directories.
func SanitizeForFilename(name string) string {
	name = pathSeparatorReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

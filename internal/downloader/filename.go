package downloader

import (
	"regexp"
	"strings"
)

// The allowed set keeps word characters, whitespace, hyphen, period and
// the Spanish accented letters the original titles carry.
var (
	disallowedRE       = regexp.MustCompile(`[^\w\sñÑáéíóúüÁÉÍÓÚÜ\-.]`)
	repeatUnderscoreRE = regexp.MustCompile(`_+`)
	repeatSpaceRE      = regexp.MustCompile(` +`)
)

// SanitizeTitle reduces a video title to a safe display filename (without
// extension). Disallowed characters become spaces; runs of underscores and
// spaces collapse to single characters.
func SanitizeTitle(title string) string {
	clean := disallowedRE.ReplaceAllString(title, " ")
	clean = repeatUnderscoreRE.ReplaceAllString(clean, "_")
	clean = repeatSpaceRE.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "audio"
	}
	return clean
}

func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(mime, "/")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return "bin"
}

package downloader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseClock converts a "SS", "MM:SS" or "HH:MM:SS" duration string into a
// time.Duration. Any other part count, or a non-numeric part, is an error;
// candidates carrying such strings are treated as having no duration.
func parseClock(text string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) < 1 || len(parts) > 3 {
		return 0, fmt.Errorf("unrecognized duration format %q", text)
	}

	total := 0
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid number %q in duration %q", part, text)
		}
		total = total*60 + value
	}
	return time.Duration(total) * time.Second, nil
}

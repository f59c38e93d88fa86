package downloader

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect identifies the pasted-text format a paste should be parsed as.
type Dialect string

const (
	DialectNone      Dialect = "none"
	DialectChat      Dialect = "chat"
	DialectMix       Dialect = "mix"
	DialectNightcore Dialect = "nightcore"
)

// ParseDialect converts a flag or request value into a Dialect.
func ParseDialect(value string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(value))) {
	case DialectNone, Dialect(""):
		return DialectNone, nil
	case DialectChat:
		return DialectChat, nil
	case DialectMix:
		return DialectMix, nil
	case DialectNightcore:
		return DialectNightcore, nil
	default:
		return DialectNone, fmt.Errorf("unknown dialect %q (expected none, chat, mix or nightcore)", value)
	}
}

// Normalized is the accumulated paste state: the display text and the
// ordered list of search queries derived from it. Structured dialects
// prepend new matches to Text but append them to Queries; both orders
// are part of the observed contract and are kept as-is.
type Normalized struct {
	Text    string
	Queries []string
}

var (
	chatMessageRE  = regexp.MustCompile(`\]\s+[^:]+:\s+(.+)`)
	chatStampRE    = regexp.MustCompile(`^\s*\[`)
	mixClockRE     = regexp.MustCompile(`^\d{1,3}:\d{2}$`)
	nightcoreClock = regexp.MustCompile(`^(?:\d{1,2}:)?\d{1,2}:\d{2}\s+`)
)

// Phrases that mark decorative lines in pasted mix tracklists.
const (
	mixPhraseTracklist = "Tracklist"
	mixPhraseSubscribe = "Subscribe"
)

// Normalize folds a raw paste into the accumulated state according to the
// chosen dialect. It never fails: when a structured dialect finds nothing
// to extract, the paste is handled by the freeform rule instead.
func Normalize(raw string, dialect Dialect, prev Normalized) Normalized {
	var matches []string
	switch dialect {
	case DialectChat:
		matches = extractChatMessages(raw)
	case DialectMix:
		matches = extractMixEntries(raw)
	case DialectNightcore:
		matches = extractNightcoreTitles(raw)
	}
	if len(matches) == 0 {
		return normalizeFreeform(raw, prev)
	}

	text := strings.Join(matches, "\n") + "\n" + prev.Text
	queries := append(append([]string(nil), prev.Queries...), matches...)
	return Normalized{Text: text, Queries: queries}
}

// normalizeFreeform appends the paste verbatim and re-splits the whole
// accumulated text. Empty lines are deliberately not filtered here.
func normalizeFreeform(raw string, prev Normalized) Normalized {
	text := prev.Text + raw
	return Normalized{Text: text, Queries: strings.Split(text, "\n")}
}

// extractChatMessages pulls the message part out of chat-log lines of the
// shape "... ] sender: message". A message continues across physical lines
// until the next bracketed timestamp; the embedded breaks collapse to
// single spaces.
func extractChatMessages(raw string) []string {
	var messages []string
	current := ""
	open := false

	flush := func() {
		if open && current != "" {
			messages = append(messages, current)
		}
		current = ""
		open = false
	}

	for _, line := range splitLines(raw) {
		if m := chatMessageRE.FindStringSubmatch(line); m != nil {
			flush()
			current = strings.TrimSpace(m[1])
			open = true
			continue
		}
		if chatStampRE.MatchString(line) {
			flush()
			continue
		}
		if open {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				current += " " + trimmed
			}
		}
	}
	flush()
	return messages
}

// extractMixEntries walks a pasted tracklist in strides of five lines,
// pairing each title line with the author line that follows it. Decorative
// lines, blank lines and bare mm:ss duration lines are stepped over one at
// a time until the next title.
func extractMixEntries(raw string) []string {
	lines := splitLines(raw)
	var entries []string
	for i := 0; i < len(lines); {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" ||
			strings.Contains(lines[i], mixPhraseTracklist) ||
			strings.Contains(lines[i], mixPhraseSubscribe) ||
			mixClockRE.MatchString(trimmed) {
			i++
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		entries = append(entries, trimmed+" - "+strings.TrimSpace(lines[i+1]))
		i += 5
	}
	return entries
}

// extractNightcoreTitles strips the leading MM:SS or H:MM:SS stamp from
// each line and keeps whatever non-empty title remains.
func extractNightcoreTitles(raw string) []string {
	var titles []string
	for _, line := range splitLines(raw) {
		line = nightcoreClock.ReplaceAllString(strings.TrimLeft(line, " \t"), "")
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	return titles
}

func splitLines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// CleanQueries trims every query and drops the empty ones, preserving
// order. The freeform rule keeps blanks in the accumulated state; callers
// re-trim here before handing the list to a pipeline run.
func CleanQueries(queries []string) []string {
	cleaned := make([]string, 0, len(queries))
	for _, q := range queries {
		if t := strings.TrimSpace(q); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

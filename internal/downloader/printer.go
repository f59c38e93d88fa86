package downloader

import (
	"fmt"
	"os"
	"strconv"
)

type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarn
	LogError
)

// Printer writes human-readable progress and results to stderr.
type Printer struct {
	quiet      bool
	color      bool
	columns    int
	titleWidth int
}

func newPrinter(opts Options) *Printer {
	columns := terminalColumns()
	if columns <= 0 {
		columns = 100
	}

	titleWidth := columns - 44
	if titleWidth < 20 {
		titleWidth = 20
	}
	if titleWidth > 60 {
		titleWidth = 60
	}

	return &Printer{
		quiet:      opts.Quiet,
		color:      supportsColor(),
		columns:    columns,
		titleWidth: titleWidth,
	}
}

func (p *Printer) Prefix(index, total int, title string) string {
	if total <= 0 {
		total = 1
	}
	width := len(strconv.Itoa(total))
	idx := fmt.Sprintf("%*d/%d", width, index, total)
	return fmt.Sprintf("[%s] %-*s", idx, p.titleWidth, truncateText(title, p.titleWidth))
}

func (p *Printer) Log(level LogLevel, message string) {
	if p.quiet && level == LogInfo {
		return
	}
	switch level {
	case LogWarn:
		fmt.Fprintf(os.Stderr, "%s %s\n", p.colorize("warning:", colorYellow), message)
	case LogError:
		fmt.Fprintf(os.Stderr, "%s %s\n", p.colorize("error:", colorRed), message)
	default:
		fmt.Fprintln(os.Stderr, message)
	}
}

func (p *Printer) ItemOK(prefix, filename string) {
	if p.quiet {
		return
	}
	p.itemLine(prefix, "OK", colorGreen, filename)
}

func (p *Printer) ItemSkipped(prefix, reason string) {
	if p.quiet {
		return
	}
	p.itemLine(prefix, "SKIP", colorYellow, reason)
}

func (p *Printer) ItemFailed(prefix string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	p.itemLine(prefix, "FAIL", colorRed, detail)
}

func (p *Printer) itemLine(prefix, statusText, statusColor, detail string) {
	maxDetail := p.columns - len(prefix) - len(statusText) - 3
	if maxDetail < 0 {
		maxDetail = 0
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", prefix, p.colorize(statusText, statusColor), truncateText(detail, maxDetail))
}

func (p *Printer) Summary(total, ok, failed, skipped int) {
	if p.quiet {
		return
	}
	okLabel := p.colorize("OK", colorGreen)
	failLabel := p.colorize("FAIL", colorRed)
	skipLabel := p.colorize("SKIP", colorYellow)
	fmt.Fprintf(os.Stderr, "Summary: %s %d | %s %d | %s %d | TOTAL %d\n",
		okLabel, ok, failLabel, failed, skipLabel, skipped, total)
}

func (p *Printer) colorize(text, color string) string {
	if !p.color || color == "" {
		return text
	}
	return color + text + colorReset
}

func truncateText(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

func terminalColumns() int {
	if columns := os.Getenv("COLUMNS"); columns != "" {
		if val, err := strconv.Atoi(columns); err == nil && val > 0 {
			return val
		}
	}
	return 0
}

func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" || os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
)

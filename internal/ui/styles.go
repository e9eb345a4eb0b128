package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yourusername/runtara-monitor/internal/model"
)

// Color scheme
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#00D9FF")
	ColorSecondary = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorInfo      = lipgloss.Color("#3B82F6")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#9CA3AF")
	ColorTextMuted     = lipgloss.Color("#6B7280")

	// Background colors
	ColorBgSecondary = lipgloss.Color("#374151")
	ColorBgHover     = lipgloss.Color("#4B5563")
)

// Common styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Italic(true)

	// Table header row
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextPrimary).
			Background(ColorBgSecondary)

	StyleSubHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleKeyDesc = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	StyleBanner = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(0, 1)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleInfo = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	StyleTextSecondary = lipgloss.NewStyle().
				Foreground(ColorTextSecondary)

	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Selection style (for highlighting selected row in lists)
	StyleSelected = lipgloss.NewStyle().
			Background(ColorBgHover).
			Foreground(ColorPrimary).
			Bold(true)
)

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatPercentage formats a percentage value
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// formatDuration renders an uptime with its two most significant units
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60
	s := secs % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// formatSeconds renders a bucket duration as seconds with two decimals
func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// formatTime renders a timestamp in local time, "-" when unset
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatTimePtr renders an optional timestamp
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

// formatBucketTime renders a bucket start for its granularity
func formatBucketTime(t time.Time, g model.Granularity) string {
	if g == model.GranularityDaily {
		return t.Local().Format("2006-01-02")
	}
	return t.Local().Format("01-02 15:00")
}

// RenderKeyBinding renders a key binding help text
func RenderKeyBinding(key, desc string) string {
	return fmt.Sprintf("%s %s", StyleKey.Render(key), StyleKeyDesc.Render(desc))
}

// RenderInstanceStatus renders an instance status with appropriate color
func RenderInstanceStatus(status model.InstanceStatus) string {
	s := string(status)
	switch status {
	case model.StatusRunning:
		return StyleInfo.Render(s)
	case model.StatusCompleted:
		return StyleSuccess.Render(s)
	case model.StatusFailed:
		return StyleError.Render(s)
	case model.StatusPending, model.StatusSuspended:
		return StyleWarning.Render(s)
	default:
		return StyleTextMuted.Render(s)
	}
}

// renderSuccessRate colors a success rate: green from 95%, yellow from 80%, red below
func renderSuccessRate(b model.MetricBucket) string {
	rate, ok := b.SuccessRate()
	if !ok {
		return StyleTextMuted.Render("-")
	}
	text := FormatPercentage(rate)
	switch {
	case rate >= 95:
		return StyleSuccess.Render(text)
	case rate >= 80:
		return StyleWarning.Render(text)
	default:
		return StyleError.Render(text)
	}
}

// ansiRegex matches ANSI color codes
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// visualLength returns the visual length of a string (excluding ANSI codes)
// Correctly handles wide characters (e.g., Chinese, Japanese, Korean)
func visualLength(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// padRight pads a string to the specified width (handling ANSI codes correctly)
func padRight(s string, width int) string {
	vlen := visualLength(s)
	if vlen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vlen)
}

// truncate truncates a string to maxLen display width, adding "..." if truncated
// Correctly handles wide characters (e.g., Chinese, Japanese, Korean)
func truncate(s string, maxLen int) string {
	stripped := stripANSI(s)
	width := runewidth.StringWidth(stripped)

	if width <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return runewidth.Truncate(stripped, maxLen, "")
	}

	return runewidth.Truncate(stripped, maxLen-3, "") + "..."
}

// renderSeparator returns a horizontal separator line, safely handling window width
func renderSeparator(width int) string {
	const minWidth = 10
	lineWidth := width - 2
	if lineWidth < minWidth {
		lineWidth = minWidth
	}
	return strings.Repeat("─", lineWidth)
}

// renderRow lays cells out in fixed-width columns separated by one space
func renderRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(" ")
		}
		w := widths[i]
		b.WriteString(padRight(truncate(cell, w), w))
	}
	return b.String()
}

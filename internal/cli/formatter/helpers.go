package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDate renders a work date like "Thu, May 2 2024".
func HumanDate(t time.Time) string {
	return t.Format("Mon, Jan 2 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatHours renders minutes as decimal hours the way validation messages
// do, e.g. "8.5h".
func FormatHours(min int) string {
	return worktime.FormatMinutesAsHours(min) + "h"
}

// Category renders "TYPE/CODE", or a dim placeholder when unset.
func Category(bizType, bizCode string) string {
	if bizType == "" && bizCode == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(bizType + "/" + bizCode)
}

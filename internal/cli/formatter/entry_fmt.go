package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// FormatEntryList renders entries as a table with a range-total footer.
func FormatEntryList(entries []*domain.TimeEntry) string {
	if len(entries) == 0 {
		return Dim("No work logs in this range.") + "\n"
	}

	headers := []string{"DATE", "TIME", "DURATION", "TYPE", "DESCRIPTION", "ID"}
	rows := make([][]string, 0, len(entries))
	total := 0
	for _, e := range entries {
		total += e.DurationMin()
		rows = append(rows, []string{
			e.DateKey(),
			e.Range(),
			FormatMinutes(e.DurationMin()),
			Category(e.BizType, e.BizCode),
			truncate(e.Description, 40),
			TruncID(e.ID),
		})
	}
	footer := []string{
		fmt.Sprintf("%d entries", len(entries)),
		"",
		FormatMinutes(total),
	}
	return RenderTableWithFooter(headers, rows, footer)
}

// FormatDay renders one day's bucket with a usage bar against the cap.
func FormatDay(day *domain.DaySummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n",
		Bold(HumanDate(day.Date)), UsageIndicator(day.TotalMin, day.CapMin)))
	b.WriteString(RenderUsage(day.TotalMin, day.CapMin, 30))
	b.WriteString("\n\n")

	if len(day.Entries) == 0 {
		b.WriteString(Dim("Nothing logged."))
	} else {
		headers := []string{"TIME", "DURATION", "TYPE", "DESCRIPTION", "ID"}
		rows := make([][]string, 0, len(day.Entries))
		for _, e := range day.Entries {
			rows = append(rows, []string{
				e.Range(),
				FormatMinutes(e.DurationMin()),
				Category(e.BizType, e.BizCode),
				truncate(e.Description, 40),
				TruncID(e.ID),
			})
		}
		b.WriteString(strings.TrimRight(RenderTable(headers, rows), "\n"))
	}
	b.WriteString("\n\n")
	b.WriteString(Dim(fmt.Sprintf("Remaining today: %s (%s)",
		FormatMinutes(day.RemainingMin), FormatHours(day.RemainingMin))))

	return RenderBox(day.UserID, b.String())
}

// FormatEntrySaved is the one-line confirmation after a write.
func FormatEntrySaved(verb string, e *domain.TimeEntry) string {
	return fmt.Sprintf("%s %s %s %s (%s)\n",
		StyleGreen.Render("✔"), verb, e.DateKey(), e.Range(), FormatMinutes(e.DurationMin()))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/worktime"
)

// FormatCheckResult reports a local batch check: the per-date totals and
// either a pass mark or the rejection message.
func FormatCheckResult(entries []domain.TimeEntry, capMin int, r worktime.Result) string {
	var b strings.Builder

	rows := [][]string{}
	for _, day := range worktime.GroupByDate(entries) {
		total := worktime.TotalMinutes(day.Entries)
		rows = append(rows, []string{
			day.Key,
			fmt.Sprintf("%d", len(day.Entries)),
			UsageIndicator(total, capMin),
		})
	}
	b.WriteString(RenderTable([]string{"DATE", "ENTRIES", "TOTAL"}, rows))
	b.WriteString("\n")

	if r.Valid() {
		b.WriteString(StyleGreen.Render("✔ batch is valid"))
	} else {
		b.WriteString(StyleRed.Render("✖ "+string(r.Kind)) + "  " + r.Message)
	}
	b.WriteString("\n")
	return b.String()
}

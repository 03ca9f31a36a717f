package formatter

import "github.com/alexanderramin/timesheet/internal/domain"

// FormatWorkTypes renders the work type catalogue.
func FormatWorkTypes(types []domain.WorkType) string {
	if len(types) == 0 {
		return Dim("No work types defined.") + "\n"
	}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t.BizType, t.BizCode, t.BizName})
	}
	return RenderTable([]string{"TYPE", "CODE", "NAME"}, rows)
}

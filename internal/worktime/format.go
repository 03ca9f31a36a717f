package worktime

import "fmt"

// FormatMinutesAsHours renders minutes as hours with one decimal, rounding
// half up on tenths of an hour: 510 -> "8.5", 543 -> "9.1".
func FormatMinutesAsHours(min int) string {
	sign := ""
	if min < 0 {
		sign = "-"
		min = -min
	}
	// One tenth of an hour is six minutes.
	tenths := (min + 3) / 6
	if tenths == 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%d.%d", sign, tenths/10, tenths%10)
}

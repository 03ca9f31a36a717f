package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUsage renders how much of the daily cap is used, like
// [██████░░] 75%. Colors follow UsageColor.
func RenderUsage(totalMin, capMin, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 1.0
	if capMin > 0 {
		pct = float64(totalMin) / float64(capMin)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %3.0f%%", UsageColor(totalMin, capMin).Render(bar), pct*100)
}

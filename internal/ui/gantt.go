package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

const ganttLabelWidth = 24

// PrintGantt renders chart as one text row per bar, one column per day.
// Completed progress is drawn solid, the rest shaded; today is a '|'.
func PrintGantt(w io.Writer, chart *timeline.Chart) {
	days := chart.TotalDays
	if days <= 0 {
		fmt.Fprintf(w, "%s\n", Dim(fmt.Sprintf("empty chart: %s..%s", chart.ChartStart, chart.ChartEnd)))
		return
	}
	unit := chart.UnitWidth
	if unit <= 0 {
		unit = timeline.DefaultUnitWidth
	}

	today := -1
	if chart.TodayOffset != nil {
		today = int(math.Round(*chart.TodayOffset / unit))
	}

	header := []rune(strings.Repeat(" ", days))
	for _, m := range chart.WeekMarkers {
		col := int(math.Round(m.Offset / unit))
		for i, r := range m.Label {
			if col+i < days {
				header[col+i] = r
			}
		}
	}
	fmt.Fprintf(w, "%s %s\n", Bold(fmt.Sprintf("%-*s", ganttLabelWidth, chart.ChartStart)), Dim(string(header)))

	for _, bar := range chart.TaskBars {
		left := int(math.Round(bar.Left / unit))
		width := int(math.Round(bar.Width / unit))
		done := int(math.Round(bar.ProgressWidth / unit))

		var row strings.Builder
		for d := 0; d < days; d++ {
			switch {
			case d >= left && d < left+done:
				row.WriteString(barColor(bar.TodayRelative)("█"))
			case d >= left && d < left+width:
				row.WriteString(barColor(bar.TodayRelative)("░"))
			case d == today:
				row.WriteString(Red("|"))
			default:
				row.WriteString(Dim("·"))
			}
		}

		label := Truncate(bar.Name, ganttLabelWidth)
		if label == "" {
			label = bar.ID
		}
		fmt.Fprintf(w, "%-*s %s %s\n", ganttLabelWidth, label, row.String(),
			Dim(fmt.Sprintf("%s..%s %d%%", bar.Start, bar.End, bar.Progress)))
	}
}

func barColor(rel timeline.Relative) func(a ...interface{}) string {
	switch rel {
	case timeline.RelativePast:
		return Green
	case timeline.RelativeCurrent:
		return Cyan
	}
	return Magenta
}

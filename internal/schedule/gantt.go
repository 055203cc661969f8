package schedule

import (
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// Bar colors used when Gantt tasks are derived from a schedule.
const (
	ColorCritical = "#ef4444"
	ColorNormal   = "#3b82f6"
	ColorDone     = "#22c55e"
)

// ToGantt places every task on the calendar at its earliest start,
// counting day offsets from projectStart. Tasks take at least one day.
func ToGantt(r *Result, projectStart timeline.Date) []timeline.GanttTask {
	out := make([]timeline.GanttTask, 0, r.Len())
	for _, t := range r.tasks {
		m := r.metrics[t.ID]

		days := t.Duration
		if days < 1 {
			days = 1
		}
		start := projectStart.AddDays(m.ES)

		color := ColorNormal
		switch {
		case t.Status == graph.StatusCompleted:
			color = ColorDone
		case m.IsCritical:
			color = ColorCritical
		}

		out = append(out, timeline.GanttTask{
			ID:           t.ID,
			Name:         t.Name,
			StartDate:    start,
			EndDate:      start.AddDays(days - 1),
			Progress:     progressOf(t.Status),
			Color:        color,
			Dependencies: append([]string(nil), t.Dependencies...),
		})
	}
	return out
}

func progressOf(s graph.Status) int {
	switch s {
	case graph.StatusCompleted:
		return 100
	case graph.StatusInProgress:
		return 50
	}
	return 0
}

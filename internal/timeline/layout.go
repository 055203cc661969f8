package timeline

import (
	"errors"
	"fmt"
)

// ErrInvertedBounds is returned by CheckBounds for a chart that would end
// before it starts.
var ErrInvertedBounds = errors.New("chart ends before it starts")

// Layout maps calendar tasks onto a day axis.
//
// With tasks, the chart runs from a week before the earliest start to two
// weeks after the latest end and explicit bounds are ignored. Without
// tasks, the explicit bounds apply, defaulting to today and today plus
// sixty days.
func Layout(tasks []GanttTask, opts Options) *Chart {
	if opts.UnitWidth <= 0 {
		opts.UnitWidth = DefaultUnitWidth
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.Today.IsZero() {
		opts.Today = Today()
	}

	start, end := bounds(tasks, opts)
	unit := opts.UnitWidth

	chart := &Chart{
		ChartStart: start,
		ChartEnd:   end,
		TotalDays:  start.DaysUntil(end) + 1,
		UnitWidth:  unit,
		RowHeight:  opts.RowHeight,
		TaskBars:   make([]TaskBar, 0, len(tasks)),
	}
	chart.Width = float64(chart.TotalDays) * unit
	chart.Height = float64(len(tasks)) * opts.RowHeight

	for d := start; !d.After(end); d = d.AddDays(7) {
		chart.WeekMarkers = append(chart.WeekMarkers, WeekMarker{
			Date:   d,
			Offset: float64(start.DaysUntil(d)) * unit,
			Label:  d.Format("Jan 2"),
		})
	}

	byID := make(map[string]int, len(tasks))
	for row, t := range tasks {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = row
		}
		chart.TaskBars = append(chart.TaskBars, barFor(t, row, start, opts))
	}

	for row, t := range tasks {
		bar := chart.TaskBars[row]
		for _, dep := range t.Dependencies {
			depRow, ok := byID[dep]
			if !ok {
				continue
			}
			depBar := chart.TaskBars[depRow]
			chart.Arrows = append(chart.Arrows, Arrow{
				From:  dep,
				To:    t.ID,
				FromX: depBar.Left + depBar.Width,
				FromY: depBar.Top + opts.RowHeight/2,
				ToX:   bar.Left,
				ToY:   bar.Top + opts.RowHeight/2,
			})
		}
	}

	if !opts.Today.Before(start) && !opts.Today.After(end) {
		offset := float64(start.DaysUntil(opts.Today)) * unit
		chart.TodayOffset = &offset
	}

	return chart
}

// CheckBounds rejects explicit bounds that end before they start. For an
// empty chart it also checks the defaults the bounds fall back to, so an
// explicit start past today plus sixty days needs an explicit end.
func (o Options) CheckBounds(empty bool) error {
	if o.Start != nil && o.End != nil && o.End.Before(*o.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvertedBounds, *o.End, *o.Start)
	}
	if !empty {
		return nil
	}
	if o.Today.IsZero() {
		o.Today = Today()
	}
	if start, end := bounds(nil, o); end.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvertedBounds, end, start)
	}
	return nil
}

func bounds(tasks []GanttTask, opts Options) (Date, Date) {
	if len(tasks) == 0 {
		start := opts.Today
		if opts.Start != nil {
			start = *opts.Start
		}
		end := opts.Today.AddDays(emptySpanDays)
		if opts.End != nil {
			end = *opts.End
		}
		return start, end
	}

	minStart, maxEnd := tasks[0].StartDate, tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(minStart) {
			minStart = t.StartDate
		}
		if t.EndDate.After(maxEnd) {
			maxEnd = t.EndDate
		}
	}
	return minStart.AddDays(-leadDays), maxEnd.AddDays(trailDays)
}

func barFor(t GanttTask, row int, chartStart Date, opts Options) TaskBar {
	unit := opts.UnitWidth

	// Zero and negative spans still get one day so the bar stays clickable.
	days := t.StartDate.DaysUntil(t.EndDate) + 1
	if days < 1 {
		days = 1
	}
	width := float64(days) * unit

	rel := RelativeCurrent
	switch {
	case t.EndDate.Before(opts.Today):
		rel = RelativePast
	case t.StartDate.After(opts.Today):
		rel = RelativeFuture
	}

	return TaskBar{
		ID:            t.ID,
		Name:          t.Name,
		Row:           row,
		Start:         t.StartDate,
		End:           t.EndDate,
		Left:          float64(chartStart.DaysUntil(t.StartDate)) * unit,
		Top:           float64(row) * opts.RowHeight,
		Width:         width,
		ProgressWidth: width * float64(t.Progress) / 100,
		Progress:      t.Progress,
		Color:         t.Color,
		Assignee:      t.Assignee,
		TodayRelative: rel,
	}
}

package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/cpm"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/ui"
)

// Reporter prints a computed schedule for humans and machines.
type Reporter struct {
	Project string
	Result  *schedule.Result
}

// New creates a new Reporter.
func New(project string, r *schedule.Result) *Reporter {
	return &Reporter{
		Project: project,
		Result:  r,
	}
}

// PrintPlan writes the level-by-level schedule table.
func (r *Reporter) PrintPlan(w io.Writer) {
	res := r.Result
	levels := res.Levels()

	title := "TaskFlow Schedule"
	if r.Project != "" {
		title += ": " + r.Project
	}
	fmt.Fprintf(w, "%s\n", ui.BoldCyan(title))
	fmt.Fprintf(w, "%s\n", ui.Cyan("══════════════════════════"))
	fmt.Fprintf(w, "Duration:  %s\n", ui.Bold(fmt.Sprintf("%d days", res.ProjectDuration())))
	fmt.Fprintf(w, "Levels:    %d\n", len(levels))
	fmt.Fprintf(w, "Tasks:     %d total, %d critical\n\n", res.Len(), len(res.CriticalTasks()))

	for i, group := range levels {
		critical := false
		for _, id := range group {
			if m, _ := res.Metrics(id); m.IsCritical {
				critical = true
				break
			}
		}
		fmt.Fprintf(w, "  %s %d (%s)\n", ui.BoldWhite("LEVEL"), i, ui.LevelStatus(critical))
		fmt.Fprintf(w, "    %s\n", ui.Dim(fmt.Sprintf("  %-10s %-32s %4s %4s %4s %4s %4s", "id", "name", "es", "ef", "ls", "lf", "slack")))

		for _, id := range group {
			task, _ := res.Task(id)
			m, _ := res.Metrics(id)
			r.printTask(w, task, m)
		}
		fmt.Fprintln(w)
	}

	if critical := res.CriticalTasks(); len(critical) > 0 {
		fmt.Fprintf(w, "Critical:  %s\n", ui.BoldYellow("⚡ "+strings.Join(critical, ", ")))
	}
	if path := res.LongestPath(); len(path) > 0 {
		fmt.Fprintf(w, "Longest:   %s\n", ui.Bold(strings.Join(path, " → ")))
	}
}

func (r *Reporter) printTask(w io.Writer, task graph.TaskNode, m cpm.Metrics) {
	slack := fmt.Sprintf("%4d", m.Slack)
	if m.Slack == 0 {
		slack = ui.BoldYellow(slack)
	}

	fmt.Fprintf(w, "    %s %-10s %-32s %4d %4d %4d %4d %s %s\n",
		ui.StatusIcon(task.Status),
		ui.Truncate(task.ID, 10),
		ui.Truncate(task.Name, 32),
		m.ES, m.EF, m.LS, m.LF,
		slack,
		ui.CriticalMark(m.IsCritical))
}

// JSON returns the machine-readable schedule.
func (r *Reporter) JSON() ([]byte, error) {
	type taskReport struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Status       graph.Status `json:"status"`
		Dependencies []string     `json:"dependencies,omitempty"`
		Duration     int          `json:"duration"`
		Level        int          `json:"level"`
		ES           int          `json:"es"`
		EF           int          `json:"ef"`
		LS           int          `json:"ls"`
		LF           int          `json:"lf"`
		Slack        int          `json:"slack"`
		IsCritical   bool         `json:"isCritical"`
	}

	type output struct {
		Project         string       `json:"project,omitempty"`
		Hash            string       `json:"hash"`
		ProjectDuration int          `json:"projectDuration"`
		CriticalPath    []string     `json:"criticalPath"`
		LongestPath     []string     `json:"longestPath"`
		Levels          [][]string   `json:"levels"`
		Tasks           []taskReport `json:"tasks"`
	}

	res := r.Result
	o := output{
		Project:         r.Project,
		Hash:            res.Hash(),
		ProjectDuration: res.ProjectDuration(),
		CriticalPath:    res.CriticalTasks(),
		LongestPath:     res.LongestPath(),
		Levels:          res.Levels(),
		Tasks:           make([]taskReport, 0, res.Len()),
	}
	res.Each(func(task graph.TaskNode, m cpm.Metrics) {
		o.Tasks = append(o.Tasks, taskReport{
			ID:           task.ID,
			Name:         task.Name,
			Status:       task.Status,
			Dependencies: task.Dependencies,
			Duration:     task.Duration,
			Level:        m.Level,
			ES:           m.ES,
			EF:           m.EF,
			LS:           m.LS,
			LF:           m.LF,
			Slack:        m.Slack,
			IsCritical:   m.IsCritical,
		})
	})

	return json.MarshalIndent(o, "", "  ")
}

// Summary returns a one-paragraph overview of the schedule.
func (r *Reporter) Summary() string {
	var b strings.Builder
	res := r.Result

	completed, inProgress := 0, 0
	res.Each(func(task graph.TaskNode, _ cpm.Metrics) {
		switch task.Status {
		case graph.StatusCompleted:
			completed++
		case graph.StatusInProgress:
			inProgress++
		}
	})

	fmt.Fprintf(&b, "%s %s\n", ui.BoldCyan("Schedule"), ui.Dim(shortHash(res.Hash())))
	fmt.Fprintf(&b, "Duration:  %s\n", ui.Bold(fmt.Sprintf("%d days", res.ProjectDuration())))
	fmt.Fprintf(&b, "Tasks:     %s, %s, %d total\n",
		ui.Green(fmt.Sprintf("%d completed", completed)),
		ui.Cyan(fmt.Sprintf("%d in progress", inProgress)),
		res.Len())
	if critical := res.CriticalTasks(); len(critical) > 0 {
		fmt.Fprintf(&b, "Critical:  %s\n", ui.BoldYellow(strings.Join(critical, ", ")))
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

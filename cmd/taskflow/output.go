package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/cpm"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/ui"
)

// --- Output helpers ---

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printLevels(w io.Writer, levels *graph.Levels) {
	for i, group := range levels.Groups {
		fmt.Fprintf(w, "%s %d: %s\n", ui.BoldWhite("Level"), i, strings.Join(group, ", "))
	}
}

func printASCIIDAG(w io.Writer, r *schedule.Result, exact bool) {
	successors := make(map[string][]cpm.Edge)
	for _, e := range r.Edges() {
		successors[e.From] = append(successors[e.From], e)
	}

	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Task Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════"))
	fmt.Fprintln(w)

	for i, group := range r.Levels() {
		fmt.Fprintf(w, "%s Level %d %s\n", ui.Cyan("──"), i, ui.Cyan("──────────────────────────────"))
		for _, id := range group {
			task, _ := r.Task(id)
			m, _ := r.Metrics(id)
			fmt.Fprintf(w, "  %s [%s] %s %s\n", ui.CriticalMark(m.IsCritical), ui.BoldMagenta(id), task.Name,
				ui.Dim(fmt.Sprintf("(%dd, slack %d)", task.Duration, m.Slack)))

			// Show edges
			for _, e := range successors[id] {
				arrow := ui.Dim("└──→")
				if r.EdgeIsCritical(e, exact) {
					arrow = ui.BoldYellow("└══→")
				}
				fmt.Fprintf(w, "      %s %s\n", arrow, ui.Magenta(e.To))
			}
		}
		fmt.Fprintln(w)
	}
}

func printDOT(w io.Writer, r *schedule.Result, exact bool) {
	fmt.Fprintln(w, "digraph taskflow {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	r.Each(func(task graph.TaskNode, m cpm.Metrics) {
		label := fmt.Sprintf("%s\\n%s\\nES %d  EF %d  slack %d", dotEscape(task.ID), dotEscape(task.Name), m.ES, m.EF, m.Slack)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if m.IsCritical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", task.ID, attrs)
	})

	fmt.Fprintln(w)

	for _, e := range r.Edges() {
		style := ""
		if r.EdgeIsCritical(e, exact) {
			style = ` [color=red, penwidth=2]`
		}
		fmt.Fprintf(w, "  %q -> %q%s;\n", e.From, e.To, style)
	}

	fmt.Fprintln(w, "}")
}

// dotEscape quotes s for use inside a double-quoted DOT string.
func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// applyFilter parses simple filter expressions and returns the matching
// part of the snapshot. Calendar tasks follow the tasks kept.
func applyFilter(snap *store.Snapshot, filter string) (*store.Snapshot, error) {
	// Supported formats: "status=X", "duration<=N", "duration=N", "duration>=N", "id=X,Y"
	var pred func(*graph.TaskNode) bool
	switch {
	case strings.HasPrefix(filter, "status="):
		status := graph.Status(strings.TrimPrefix(filter, "status="))
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status: %s", status)
		}
		pred = func(t *graph.TaskNode) bool { return t.Status == status }
	case strings.HasPrefix(filter, "id="):
		ids := make(map[string]bool)
		for _, id := range strings.Split(strings.TrimPrefix(filter, "id="), ",") {
			ids[strings.TrimSpace(id)] = true
		}
		pred = func(t *graph.TaskNode) bool { return ids[t.ID] }
	case strings.HasPrefix(filter, "duration"):
		var err error
		if pred, err = filterByDuration(filter); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported filter: %s (use status=X, id=X,Y or duration<=N)", filter)
	}

	g := graph.Build(snap.Tasks).Filter(pred)
	out := &store.Snapshot{Project: snap.Project, Tasks: g.Snapshot()}
	for _, t := range snap.Gantt {
		if _, ok := g.Tasks[t.ID]; ok {
			out.Gantt = append(out.Gantt, t)
		}
	}
	return out, nil
}

func filterByDuration(filter string) (func(*graph.TaskNode) bool, error) {
	filter = strings.TrimPrefix(filter, "duration")
	for _, op := range []string{"<=", ">=", "="} {
		if !strings.HasPrefix(filter, op) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(filter, op))
		if err != nil {
			return nil, fmt.Errorf("invalid duration value: %w", err)
		}
		switch op {
		case "<=":
			return func(t *graph.TaskNode) bool { return t.Duration <= n }, nil
		case ">=":
			return func(t *graph.TaskNode) bool { return t.Duration >= n }, nil
		default:
			return func(t *graph.TaskNode) bool { return t.Duration == n }, nil
		}
	}
	return nil, fmt.Errorf("unsupported duration filter: duration%s", filter)
}

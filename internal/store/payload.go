package store

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// DecodePayload extracts tasks from an arbitrary JSON document, such as a
// REST response or a queued message, where the task array sits at a gjson
// path (for example "data.items" or "result.#(kind==\"board\").tasks").
//
// Field names vary between producers, so common aliases are accepted:
// name/title, duration/durationDays/estimate, dependencies/deps/dependsOn,
// startDate/start/start_date and endDate/end/end_date/dueDate. Entries with
// dates become Gantt tasks as well. Dependencies may be given as ids or as
// objects with an id field.
func DecodePayload(data []byte, path string) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode payload: invalid JSON")
	}

	root := gjson.ParseBytes(data)
	items := root
	if path != "" {
		items = root.Get(path)
	}
	if !items.Exists() {
		return nil, fmt.Errorf("decode payload: nothing at path %q: %w", path, ErrNotFound)
	}
	if !items.IsArray() {
		return nil, fmt.Errorf("decode payload: value at path %q is not an array", path)
	}

	snap := &Snapshot{Project: root.Get("project").String()}
	var err error
	items.ForEach(func(_, item gjson.Result) bool {
		id := first(item, "id", "_id", "key").String()
		if id == "" {
			err = fmt.Errorf("decode payload: task without id: %s", item.Raw)
			return false
		}
		deps := dependencyIDs(first(item, "dependencies", "deps", "dependsOn", "depends_on"))

		snap.Tasks = append(snap.Tasks, graph.TaskNode{
			ID:           id,
			Name:         first(item, "name", "title").String(),
			Duration:     int(first(item, "duration", "durationDays", "duration_days", "estimate").Int()),
			Dependencies: deps,
			Status:       normalizeStatus(first(item, "status", "state").String()),
		})

		start := first(item, "startDate", "start", "start_date")
		end := first(item, "endDate", "end", "end_date", "dueDate", "due_date")
		if !start.Exists() || !end.Exists() {
			return true
		}
		startDate, perr := timeline.ParseDate(start.String())
		if perr != nil {
			err = fmt.Errorf("decode payload: task %s: %w", id, perr)
			return false
		}
		endDate, perr := timeline.ParseDate(end.String())
		if perr != nil {
			err = fmt.Errorf("decode payload: task %s: %w", id, perr)
			return false
		}
		snap.Gantt = append(snap.Gantt, timeline.GanttTask{
			ID:           id,
			Name:         first(item, "name", "title").String(),
			StartDate:    startDate,
			EndDate:      endDate,
			Progress:     int(first(item, "progress").Int()),
			Color:        first(item, "color").String(),
			Assignee:     first(item, "assignee.name", "assignee", "owner").String(),
			Dependencies: deps,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func first(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func dependencyIDs(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var ids []string
	v.ForEach(func(_, dep gjson.Result) bool {
		if dep.IsObject() {
			dep = first(dep, "id", "taskId", "task_id")
		}
		if s := dep.String(); s != "" {
			ids = append(ids, s)
		}
		return true
	})
	return ids
}

// normalizeStatus maps the status spellings used by task boards onto the
// engine's three states. Unknown values pass through for Validate to flag.
func normalizeStatus(s string) graph.Status {
	switch s {
	case "", "todo", "not_started", "not-started", "notStarted", "backlog", "open":
		return graph.StatusNotStarted
	case "in_progress", "in-progress", "inProgress", "doing", "review":
		return graph.StatusInProgress
	case "done", "completed", "closed":
		return graph.StatusCompleted
	}
	return graph.Status(s)
}

// Package store reads task snapshots from wherever the project keeps them.
// Every read returns a fresh copy; nothing is cached between calls.
package store

import (
	"context"
	"errors"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

var (
	ErrNotFound          = errors.New("snapshot not found")
	ErrSchemaMissing     = errors.New("task tables missing")
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)

// Source lists the tasks of one project scope.
type Source interface {
	ListTasks(ctx context.Context, project string) ([]graph.TaskNode, error)
	ListGanttTasks(ctx context.Context, project string) ([]timeline.GanttTask, error)
}

// Snapshot is the task list of one project as exchanged with files, HTTP
// bodies and message payloads.
type Snapshot struct {
	Project string               `json:"project" yaml:"project"`
	Tasks   []graph.TaskNode     `json:"tasks" yaml:"tasks"`
	Gantt   []timeline.GanttTask `json:"gantt,omitempty" yaml:"gantt,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{Project: s.Project}
	if s.Tasks != nil {
		out.Tasks = make([]graph.TaskNode, len(s.Tasks))
		for i, t := range s.Tasks {
			t.Dependencies = append([]string(nil), t.Dependencies...)
			out.Tasks[i] = t
		}
	}
	if s.Gantt != nil {
		out.Gantt = make([]timeline.GanttTask, len(s.Gantt))
		for i, t := range s.Gantt {
			t.Dependencies = append([]string(nil), t.Dependencies...)
			out.Gantt[i] = t
		}
	}
	return out
}

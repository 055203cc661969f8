// Package schedule composes leveling and critical path analysis into one
// pure call and exposes the outcome as a read-only record.
package schedule

import (
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/cpm"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
)

// Result is the schedule of one task snapshot. It is never modified after
// Compute returns, so it can be shared between goroutines and callers.
type Result struct {
	hash            string
	tasks           []graph.TaskNode
	index           map[string]int
	metrics         map[string]cpm.Metrics
	levels          [][]string
	criticalPath    []string
	longestPath     []string
	edges           []cpm.Edge
	criticalEdges   map[cpm.Edge]bool
	tracedEdges     map[cpm.Edge]bool
	projectDuration int
}

// Compute levels the snapshot and runs the forward and backward passes.
// A dependency cycle is the only error and satisfies
// errors.Is(err, graph.ErrCycleDetected).
func Compute(tasks []graph.TaskNode) (*Result, error) {
	g := graph.Build(tasks)
	analysis, err := cpm.Analyze(g)
	if err != nil {
		return nil, err
	}
	return newResult(Hash(tasks), g, analysis), nil
}

func newResult(hash string, g *graph.TaskGraph, analysis *cpm.Result) *Result {
	r := &Result{
		hash:            hash,
		tasks:           g.Snapshot(),
		metrics:         make(map[string]cpm.Metrics, len(analysis.Tasks)),
		levels:          make([][]string, len(analysis.Levels)),
		criticalPath:    analysis.CriticalPath,
		longestPath:     analysis.LongestPath(),
		edges:           analysis.Edges(),
		criticalEdges:   make(map[cpm.Edge]bool),
		tracedEdges:     make(map[cpm.Edge]bool),
		projectDuration: analysis.ProjectDuration,
	}
	r.index = make(map[string]int, len(r.tasks))
	for i, t := range r.tasks {
		r.index[t.ID] = i
	}
	for id, m := range analysis.Tasks {
		r.metrics[id] = *m
	}
	for i, lv := range analysis.Levels {
		r.levels[i] = lv.TaskIDs
	}
	for _, e := range r.edges {
		if analysis.EdgeIsCritical(e.From, e.To) {
			r.criticalEdges[e] = true
		}
	}
	for _, e := range analysis.TraceCriticalEdges() {
		r.tracedEdges[e] = true
	}
	return r
}

// Hash is the content hash of the snapshot the result was computed from.
func (r *Result) Hash() string { return r.hash }

// ProjectDuration is the largest earliest finish over all tasks.
func (r *Result) ProjectDuration() int { return r.projectDuration }

// Len returns the number of scheduled tasks.
func (r *Result) Len() int { return len(r.tasks) }

// Metrics returns the derived values for id.
func (r *Result) Metrics(id string) (cpm.Metrics, bool) {
	m, ok := r.metrics[id]
	return m, ok
}

// Task returns the raw task for id.
func (r *Result) Task(id string) (graph.TaskNode, bool) {
	i, ok := r.index[id]
	if !ok {
		return graph.TaskNode{}, false
	}
	return cloneTask(r.tasks[i]), true
}

// Tasks strips the derived fields and returns the raw tasks in input order.
// Computing a schedule from them reproduces this result.
func (r *Result) Tasks() []graph.TaskNode {
	out := make([]graph.TaskNode, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// Levels returns task IDs grouped by topological level.
func (r *Result) Levels() [][]string {
	out := make([][]string, len(r.levels))
	for i, group := range r.levels {
		out[i] = append([]string(nil), group...)
	}
	return out
}

// CriticalTasks returns the zero-slack tasks in level order.
func (r *Result) CriticalTasks() []string {
	return append([]string(nil), r.criticalPath...)
}

// LongestPath returns one chain of tasks spanning the project duration.
func (r *Result) LongestPath() []string {
	return append([]string(nil), r.longestPath...)
}

// Edges returns all resolvable dependency edges.
func (r *Result) Edges() []cpm.Edge {
	return append([]cpm.Edge(nil), r.edges...)
}

// EdgeIsCritical labels an edge for rendering. With exact false both
// endpoints having zero slack is enough; with exact true the edge must lie
// on a traced longest path.
func (r *Result) EdgeIsCritical(e cpm.Edge, exact bool) bool {
	if exact {
		return r.tracedEdges[e]
	}
	return r.criticalEdges[e]
}

// Each calls fn for every task in input order.
func (r *Result) Each(fn func(task graph.TaskNode, m cpm.Metrics)) {
	for _, t := range r.tasks {
		fn(cloneTask(t), r.metrics[t.ID])
	}
}

func cloneTask(t graph.TaskNode) graph.TaskNode {
	t.Dependencies = append([]string(nil), t.Dependencies...)
	return t
}

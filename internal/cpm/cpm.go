package cpm

import (
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
)

// Analyze levels the graph and runs the critical path method over it.
// The only failure is a dependency cycle, returned as *graph.CycleError.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	levels, err := graph.Level(g)
	if err != nil {
		return nil, err
	}
	return AnalyzeLeveled(g, levels), nil
}

// AnalyzeLeveled performs the forward and backward passes over a graph that
// has already been leveled. Degenerate input (no tasks, zero durations,
// dangling dependencies) yields a trivial but complete result.
func AnalyzeLeveled(g *graph.TaskGraph, levels *graph.Levels) *Result {
	result := &Result{
		Tasks: make(map[string]*Metrics, len(g.Order)),
		Order: g.Order,
		graph: g,
	}

	// Initialize schedules
	for _, id := range g.Order {
		lvl, _ := levels.Of(id)
		result.Tasks[id] = &Metrics{
			TaskID:   id,
			Level:    lvl,
			Duration: g.Tasks[id].Duration,
		}
	}

	// Forward pass: ES = max(EF of dependencies), or 0 without any
	for _, group := range levels.Groups {
		for _, id := range group {
			m := result.Tasks[id]
			for i, dep := range g.RevAdj[id] {
				if ef := result.Tasks[dep].EF; i == 0 || ef > m.ES {
					m.ES = ef
				}
			}
			m.EF = m.ES + m.Duration
		}
	}

	// Total project duration
	for i, id := range g.Order {
		if ef := result.Tasks[id].EF; i == 0 || ef > result.ProjectDuration {
			result.ProjectDuration = ef
		}
	}

	// Backward pass: LF = min(LS of successors), or project duration for sinks
	for l := len(levels.Groups) - 1; l >= 0; l-- {
		for _, id := range levels.Groups[l] {
			m := result.Tasks[id]
			m.LF = result.ProjectDuration
			for i, succ := range g.Adj[id] {
				if ls := result.Tasks[succ].LS; i == 0 || ls < m.LF {
					m.LF = ls
				}
			}
			m.LS = m.LF - m.Duration
			m.Slack = m.LS - m.ES
			m.IsCritical = m.Slack == 0
		}
	}

	result.Levels = make([]Level, len(levels.Groups))
	for i, group := range levels.Groups {
		lv := Level{Index: i, TaskIDs: group}
		for _, id := range group {
			if result.Tasks[id].IsCritical {
				lv.IsCritical = true
				result.CriticalPath = append(result.CriticalPath, id)
			}
		}
		result.Levels[i] = lv
	}

	return result
}

// Edges returns every resolvable dependency edge, ordered by dependent in
// input order and then by declaration order.
func (r *Result) Edges() []Edge {
	var edges []Edge
	for _, id := range r.Order {
		for _, dep := range r.graph.RevAdj[id] {
			edges = append(edges, Edge{From: dep, To: id})
		}
	}
	return edges
}

// EdgeIsCritical reports whether the edge from -> to should be drawn on the
// critical path. Both endpoints having zero slack is an approximation: when
// several zero-slack chains exist, two adjacent critical tasks are not
// necessarily on the same longest path. Use TraceCriticalEdges for the
// exact edge set.
func (r *Result) EdgeIsCritical(from, to string) bool {
	f, ok := r.Tasks[from]
	if !ok {
		return false
	}
	t, ok := r.Tasks[to]
	if !ok {
		return false
	}
	return f.IsCritical && t.IsCritical
}

// TraceCriticalEdges returns the edges that lie on some longest path.
// It back-traces from every zero-slack task finishing at the project
// duration, following only tight edges (EF of the dependency equals ES of
// the dependent) between zero-slack tasks.
func (r *Result) TraceCriticalEdges() []Edge {
	onPath := make(map[Edge]bool)
	visited := make(map[string]bool)

	var queue []string
	for _, id := range r.Order {
		if m := r.Tasks[id]; m.IsCritical && m.EF == r.ProjectDuration {
			queue = append(queue, id)
			visited[id] = true
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range r.tightDeps(id) {
			onPath[Edge{From: dep, To: id}] = true
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var edges []Edge
	for _, e := range r.Edges() {
		if onPath[e] {
			edges = append(edges, e)
		}
	}
	return edges
}

// LongestPath returns one concrete chain of tasks, source first, whose
// durations add up to the project duration. Ties are broken by input order
// and then by dependency declaration order.
func (r *Result) LongestPath() []string {
	current := ""
	for _, id := range r.Order {
		if m := r.Tasks[id]; m.IsCritical && m.EF == r.ProjectDuration {
			current = id
			break
		}
	}
	if current == "" {
		return nil
	}

	path := []string{current}
	seen := map[string]bool{current: true}
	for {
		deps := r.tightDeps(current)
		if len(deps) == 0 || seen[deps[0]] {
			break
		}
		current = deps[0]
		seen[current] = true
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// tightDeps returns the zero-slack dependencies of id that finish exactly
// when id starts.
func (r *Result) tightDeps(id string) []string {
	m := r.Tasks[id]
	var deps []string
	for _, dep := range r.graph.RevAdj[id] {
		if d := r.Tasks[dep]; d.IsCritical && d.EF == m.ES {
			deps = append(deps, dep)
		}
	}
	return deps
}

package graph

import (
	"errors"
)

// Build constructs a TaskGraph from a task snapshot.
//
// Dependencies on ids outside the snapshot are dropped, repeated edges are
// collapsed, and when an id appears more than once only the first task with
// that id is kept. Build never fails; cycles are reported by Level.
func Build(tasks []TaskNode) *TaskGraph {
	g := &TaskGraph{
		Tasks:  make(map[string]*TaskNode, len(tasks)),
		Order:  make([]string, 0, len(tasks)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	// Index all tasks
	for i := range tasks {
		t := tasks[i]
		if _, dup := g.Tasks[t.ID]; dup {
			continue
		}
		t.Dependencies = append([]string(nil), t.Dependencies...)
		g.Tasks[t.ID] = &t
		g.Order = append(g.Order, t.ID)
	}

	// Edges run dependency -> dependent. RevAdj keeps declaration order and
	// Adj follows input order of the dependents.
	edgeSet := make(map[[2]string]bool)
	for _, id := range g.Order {
		for _, dep := range g.Tasks[id].Dependencies {
			if _, ok := g.Tasks[dep]; !ok {
				continue
			}
			key := [2]string{dep, id}
			if edgeSet[key] {
				continue
			}
			edgeSet[key] = true
			g.Adj[dep] = append(g.Adj[dep], id)
			g.RevAdj[id] = append(g.RevAdj[id], dep)
		}
	}

	for _, id := range g.Order {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}

	return g
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
func (g *TaskGraph) DetectCycle() []string {
	_, err := Level(g)
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce.Path
	}
	return nil
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Order)
}

// Successors returns the tasks that depend on id.
func (g *TaskGraph) Successors(id string) []string {
	return g.Adj[id]
}

// Predecessors returns the resolvable dependencies of id.
func (g *TaskGraph) Predecessors(id string) []string {
	return g.RevAdj[id]
}

// Snapshot returns copies of the tasks in input order.
func (g *TaskGraph) Snapshot() []TaskNode {
	out := make([]TaskNode, 0, len(g.Order))
	for _, id := range g.Order {
		t := *g.Tasks[id]
		t.Dependencies = append([]string(nil), t.Dependencies...)
		out = append(out, t)
	}
	return out
}

// Filter returns a new TaskGraph containing only tasks matching the predicate.
// Dependencies on filtered-out tasks become dangling and are ignored.
func (g *TaskGraph) Filter(pred func(*TaskNode) bool) *TaskGraph {
	var filtered []TaskNode
	for _, id := range g.Order {
		if t := g.Tasks[id]; pred(t) {
			filtered = append(filtered, *t)
		}
	}
	return Build(filtered)
}

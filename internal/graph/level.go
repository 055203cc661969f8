package graph

type walkFrame struct {
	id   string
	next int // index of the next dependency to visit
}

// Level assigns every task its topological depth: 0 without resolvable
// dependencies, otherwise one more than its deepest dependency.
//
// The walk uses an explicit stack with three-state marking. Reaching a task
// that is still in progress on the current branch means the snapshot has a
// dependency cycle, reported as *CycleError.
func Level(g *TaskGraph) (*Levels, error) {
	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[string]uint8, len(g.Order))
	depth := make(map[string]int, len(g.Order))

	for _, start := range g.Order {
		if state[start] != unvisited {
			continue
		}

		state[start] = inProgress
		stack := []walkFrame{{id: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.RevAdj[top.id]

			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++
				switch state[dep] {
				case inProgress:
					return nil, cycleFrom(stack, dep)
				case unvisited:
					state[dep] = inProgress
					stack = append(stack, walkFrame{id: dep})
				}
				continue
			}

			// All dependencies resolved
			lvl := 0
			for _, dep := range deps {
				if d := depth[dep] + 1; d > lvl {
					lvl = d
				}
			}
			depth[top.id] = lvl
			state[top.id] = done
			stack = stack[:len(stack)-1]
		}
	}

	levels := &Levels{ByID: depth}
	for _, id := range g.Order {
		lvl := depth[id]
		for len(levels.Groups) <= lvl {
			levels.Groups = append(levels.Groups, nil)
		}
		levels.Groups[lvl] = append(levels.Groups[lvl], id)
	}
	return levels, nil
}

// cycleFrom builds the cycle path from the stack segment that starts at
// the revisited task.
func cycleFrom(stack []walkFrame, revisited string) *CycleError {
	start := 0
	for i := range stack {
		if stack[i].id == revisited {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return &CycleError{Path: append(path, revisited)}
}

// Of returns the level of id and whether id was leveled.
func (l *Levels) Of(id string) (int, bool) {
	lvl, ok := l.ByID[id]
	return lvl, ok
}

// Depth returns the number of distinct levels.
func (l *Levels) Depth() int {
	return len(l.Groups)
}

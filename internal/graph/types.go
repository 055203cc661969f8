package graph

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskNode is a single schedulable task as read from the task store.
// Dependencies may name ids that are not part of the working set; those
// references are treated as already satisfied.
type TaskNode struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Duration     int      `json:"duration" yaml:"duration"` // days
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Status       Status   `json:"status" yaml:"status"`
}

// TaskGraph is the dependency graph over one task snapshot.
type TaskGraph struct {
	Tasks  map[string]*TaskNode
	Order  []string            // input order, duplicate ids dropped
	Adj    map[string][]string // task -> tasks that depend on it
	RevAdj map[string][]string // task -> resolvable dependencies
	Roots  []string            // tasks with no resolvable dependencies
	Leaves []string            // tasks nothing depends on
}

// Levels holds the topological depth of every task and the tasks grouped
// by depth. Groups keep input order.
type Levels struct {
	ByID   map[string]int
	Groups [][]string
}

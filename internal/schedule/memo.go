package schedule

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/cpm"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
)

// DefaultMemoSize is the number of schedules a Memo keeps by default.
const DefaultMemoSize = 128

// Memo caches schedules by snapshot content hash. It is safe for
// concurrent use. Failed computations are not cached.
type Memo struct {
	cache *lru.Cache[string, *Result]
}

// NewMemo creates a Memo holding up to size schedules.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("create schedule cache: %w", err)
	}
	return &Memo{cache: cache}, nil
}

// Compute returns the cached schedule for an identical snapshot, computing
// and storing it otherwise.
func (m *Memo) Compute(tasks []graph.TaskNode) (*Result, error) {
	key := Hash(tasks)
	if r, ok := m.cache.Get(key); ok {
		return r, nil
	}

	g := graph.Build(tasks)
	analysis, err := cpm.Analyze(g)
	if err != nil {
		return nil, err
	}
	r := newResult(key, g, analysis)
	m.cache.Add(key, r)
	return r, nil
}

// Len returns the number of cached schedules.
func (m *Memo) Len() int {
	return m.cache.Len()
}

// Purge drops every cached schedule.
func (m *Memo) Purge() {
	m.cache.Purge()
}

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// MemorySource keeps uploaded snapshots keyed by a generated id. The id is
// used in place of the project name when listing tasks.
type MemorySource struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{snapshots: make(map[string]*Snapshot)}
}

// Put stores a copy of snap and returns its id.
func (s *MemorySource) Put(snap *Snapshot) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.snapshots[id] = snap.Clone()
	s.mu.Unlock()

	return id
}

// Get returns a copy of the snapshot stored under id.
func (s *MemorySource) Get(id string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot stored under id.
func (s *MemorySource) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return false
	}
	delete(s.snapshots, id)
	return true
}

// Len returns the number of stored snapshots.
func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

func (s *MemorySource) ListTasks(_ context.Context, id string) ([]graph.TaskNode, error) {
	snap, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return snap.Tasks, nil
}

func (s *MemorySource) ListGanttTasks(_ context.Context, id string) ([]timeline.GanttTask, error) {
	snap, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return snap.Gantt, nil
}

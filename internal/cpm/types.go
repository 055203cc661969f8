package cpm

import "github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"

// Result holds the complete critical path analysis of one snapshot.
type Result struct {
	Tasks           map[string]*Metrics
	Order           []string // input order
	Levels          []Level  // tasks grouped by topological level
	CriticalPath    []string // zero-slack task IDs in level order
	ProjectDuration int

	graph *graph.TaskGraph
}

// Metrics holds the scheduling info for a single task. Day offsets are
// relative to project start.
type Metrics struct {
	TaskID     string `json:"id"`
	Level      int    `json:"level"`
	Duration   int    `json:"duration"`
	ES         int    `json:"es"`
	EF         int    `json:"ef"`
	LS         int    `json:"ls"`
	LF         int    `json:"lf"`
	Slack      int    `json:"slack"`
	IsCritical bool   `json:"isCritical"`
}

// Level is a group of tasks sharing the same topological depth.
type Level struct {
	Index      int      `json:"index"`
	TaskIDs    []string `json:"taskIds"`
	IsCritical bool     `json:"isCritical"` // true if the level holds a critical task
}

// Edge is a resolvable dependency edge, From the dependency To the dependent.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

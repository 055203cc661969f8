// Package pert lays out a computed schedule as a PERT network diagram.
package pert

import (
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/cpm"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
)

const (
	DefaultColumnWidth = 220
	DefaultRowHeight   = 110
	DefaultPadding     = 40
)

// Options controls node spacing and edge labeling.
type Options struct {
	ColumnWidth float64
	RowHeight   float64
	Padding     float64

	// ExactCriticalEdges labels only edges on a traced longest path instead
	// of every edge between two zero-slack tasks.
	ExactCriticalEdges bool
}

// Node is a task box positioned by its level (column) and its position
// within the level (row).
type Node struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Status     graph.Status `json:"status"`
	Duration   int          `json:"duration"`
	Level      int          `json:"level"`
	ES         int          `json:"es"`
	EF         int          `json:"ef"`
	LS         int          `json:"ls"`
	LF         int          `json:"lf"`
	Slack      int          `json:"slack"`
	IsCritical bool         `json:"isCritical"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
}

// Edge connects a dependency node to its dependent.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Critical bool   `json:"critical"`
}

// Metadata summarizes the diagram.
type Metadata struct {
	Hash            string   `json:"hash"`
	ProjectDuration int      `json:"projectDuration"`
	TotalTasks      int      `json:"totalTasks"`
	TotalLevels     int      `json:"totalLevels"`
	CriticalPath    []string `json:"criticalPath"`
	LongestPath     []string `json:"longestPath"`
	ExactEdges      bool     `json:"exactEdges"`
	Width           float64  `json:"width"`
	Height          float64  `json:"height"`
}

// Diagram is what a PERT renderer consumes.
type Diagram struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// Build positions every task of r. Nodes are emitted level by level, in
// input order within a level.
func Build(r *schedule.Result, opts Options) *Diagram {
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = DefaultColumnWidth
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.Padding <= 0 {
		opts.Padding = DefaultPadding
	}

	levels := r.Levels()
	d := &Diagram{
		Nodes: make([]Node, 0, r.Len()),
		Edges: make([]Edge, 0),
		Metadata: Metadata{
			Hash:            r.Hash(),
			ProjectDuration: r.ProjectDuration(),
			TotalTasks:      r.Len(),
			TotalLevels:     len(levels),
			CriticalPath:    r.CriticalTasks(),
			LongestPath:     r.LongestPath(),
			ExactEdges:      opts.ExactCriticalEdges,
		},
	}

	widest := 0
	for lvl, group := range levels {
		if len(group) > widest {
			widest = len(group)
		}
		for row, id := range group {
			t, _ := r.Task(id)
			m, _ := r.Metrics(id)
			d.Nodes = append(d.Nodes, nodeFor(t, m, lvl, row, opts))
		}
	}

	for _, e := range r.Edges() {
		d.Edges = append(d.Edges, Edge{
			From:     e.From,
			To:       e.To,
			Critical: r.EdgeIsCritical(e, opts.ExactCriticalEdges),
		})
	}

	if len(levels) > 0 {
		d.Metadata.Width = 2*opts.Padding + float64(len(levels))*opts.ColumnWidth
		d.Metadata.Height = 2*opts.Padding + float64(widest)*opts.RowHeight
	}
	return d
}

func nodeFor(t graph.TaskNode, m cpm.Metrics, lvl, row int, opts Options) Node {
	return Node{
		ID:         t.ID,
		Name:       t.Name,
		Status:     t.Status,
		Duration:   t.Duration,
		Level:      lvl,
		ES:         m.ES,
		EF:         m.EF,
		LS:         m.LS,
		LF:         m.LF,
		Slack:      m.Slack,
		IsCritical: m.IsCritical,
		X:          opts.Padding + float64(lvl)*opts.ColumnWidth,
		Y:          opts.Padding + float64(row)*opts.RowHeight,
	}
}
